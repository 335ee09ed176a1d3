package mmgrid

import (
	"strings"
)

// Result is the outcome of converting one input string. When Valid is
// false only InputFormat and Error are set.
type Result struct {
	Valid       bool         `json:"isValid" yaml:"isValid"`
	InputFormat Format       `json:"inputFormat" yaml:"inputFormat"`
	LatLon      *LatLon      `json:"latLon,omitempty" yaml:"latLon,omitempty"`
	UTM         *UTMCoord    `json:"utm,omitempty" yaml:"utm,omitempty"`
	MMUTM       *MyanmarGrid `json:"mmUtm,omitempty" yaml:"mmUtm,omitempty"`
	MGRS        *MGRSCoord   `json:"mgrs,omitempty" yaml:"mgrs,omitempty"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`

	// Err is the underlying error, for classification with ErrorKindOf.
	Err error `json:"-" yaml:"-"`
}

// Options tune how a Converter derives grid references.
type Options struct {
	// GridPrecision is the digit group length of the Myanmar grid
	// reference derived from a Lat/Lon input: Precision1m or Precision100m.
	GridPrecision int

	// DatumShift is subtracted from a Lat/Lon before it is placed on the
	// grid and added back to positions recovered from Myanmar grid
	// references. MGRS input is taken as WGS84 and never shifted.
	DatumShift DatumShift
}

// DefaultOptions derives 1 m Myanmar grid references on plain WGS84.
func DefaultOptions() Options {
	return Options{GridPrecision: Precision1m, DatumShift: NoDatumShift}
}

// Converter turns free form coordinate strings into every supported
// representation. It holds no mutable state and is safe for concurrent
// use.
type Converter struct {
	opts Options
	mgrs *MGRS
}

// NewConverter returns a Converter using the WGS84 MGRS grid.
func NewConverter(opts Options) (*Converter, error) {
	if opts.GridPrecision != Precision1m && opts.GridPrecision != Precision100m {
		return nil, newError(ErrUnsupportedPrecision, "grid precision must be %d or %d digits, got %d",
			Precision100m, Precision1m, opts.GridPrecision)
	}
	return &Converter{opts: opts, mgrs: DefaultMGRSConverter}, nil
}

// Options returns the options c was built with.
func (c *Converter) Options() Options {
	return c.opts
}

// ConvertCoordinates converts input with the default options.
func ConvertCoordinates(input string) Result {
	return defaultConverter.Convert(input)
}

// Convert detects the format of raw, parses it and derives the other
// representations. It never panics and never returns an error; failures
// are reported in the Result.
func (c *Converter) Convert(raw string) (res Result) {
	format := Detect(raw)
	defer func() {
		if r := recover(); r != nil {
			res = failure(format, newError(ErrConversion, "Conversion error: %v", r))
		}
	}()

	var err error
	switch format {
	case FormatLATLON:
		res, err = c.fromLatLon(raw)
	case FormatMMUTM:
		res, err = c.fromMyanmarGrid(raw)
	case FormatMGRS:
		res, err = c.fromMGRS(raw)
	default:
		err = newError(ErrUnrecognizedFormat, "Unrecognized coordinate format: %s", strings.TrimSpace(raw))
	}
	if err != nil {
		return failure(format, err)
	}
	res.Valid = true
	res.InputFormat = format
	return res
}

func failure(format Format, err error) Result {
	return Result{InputFormat: format, Error: err.Error(), Err: err}
}

func (c *Converter) fromLatLon(raw string) (Result, error) {
	latLon, err := ParseLatLon(raw)
	if err != nil {
		return Result{}, err
	}
	utm, err := LatLonToUTM(latLon)
	if err != nil {
		return Result{}, err
	}
	res := Result{LatLon: &latLon, UTM: &utm}

	// Outside the non-polar grid there is no MGRS or Myanmar reference;
	// the result is still valid.
	onGrid := latLon.Unshift(c.opts.DatumShift).S2()
	ref, err := c.mgrs.ConvertFromGeodetic(onGrid, Precision1m)
	if err != nil {
		return res, nil
	}
	mgrs, err := ParseMGRS(ref)
	if err != nil {
		return Result{}, err
	}
	res.MGRS = &mgrs

	gridRef := mgrs
	if c.opts.GridPrecision != Precision1m {
		ref, err := c.mgrs.ConvertFromGeodetic(onGrid, c.opts.GridPrecision)
		if err != nil {
			return res, nil
		}
		if gridRef, err = ParseMGRS(ref); err != nil {
			return Result{}, err
		}
	}
	if mm, err := MGRSToMyanmarGrid(gridRef); err == nil {
		res.MMUTM = &mm
	}
	return res, nil
}

func (c *Converter) fromMyanmarGrid(raw string) (Result, error) {
	mm, err := ParseMyanmarGrid(raw)
	if err != nil {
		return Result{}, err
	}
	ref, err := MyanmarGridToMGRS(mm)
	if err != nil {
		return Result{}, err
	}
	res, err := c.fromMGRSReference(ref, c.opts.DatumShift)
	if err != nil {
		return Result{}, err
	}
	res.MMUTM = &mm
	return res, nil
}

func (c *Converter) fromMGRS(raw string) (Result, error) {
	res, err := c.fromMGRSReference(raw, NoDatumShift)
	if err != nil {
		return Result{}, err
	}
	if mm, err := MGRSToMyanmarGrid(*res.MGRS); err == nil {
		res.MMUTM = &mm
	}
	return res, nil
}

// fromMGRSReference recovers the position a grid reference stands for,
// the centre of its cell moved by shift, and projects it back to UTM.
// Only Myanmar grid references carry the legacy datum; MGRS input is
// always WGS84.
func (c *Converter) fromMGRSReference(ref string, shift DatumShift) (Result, error) {
	mgrs, err := ParseMGRS(ref)
	if err != nil {
		return Result{}, err
	}
	bounds, err := c.mgrs.Bounds(mgrs.Formatted)
	if err != nil {
		return Result{}, err
	}
	latLon := bounds.Center().Shift(shift)
	utm, err := LatLonToUTM(latLon)
	if err != nil {
		return Result{}, err
	}
	return Result{LatLon: &latLon, UTM: &utm, MGRS: &mgrs}, nil
}

// Example is a named preset input.
type Example struct {
	Name   string
	Format Format
	Input  string
}

// Examples are preset inputs, one per detectable format, all near Yangon.
var Examples = []Example{
	{Name: "latlon", Format: FormatLATLON, Input: "16.8794118, 96.1420957"},
	{Name: "mmutm", Format: FormatMMUTM, Input: "JU9549568421"},
	{Name: "mgrs", Format: FormatMGRS, Input: "47QJU9549568421"},
}

// LookupExample returns the preset called name.
func LookupExample(name string) (Example, bool) {
	for _, e := range Examples {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Example{}, false
}
