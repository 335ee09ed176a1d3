package mmgrid

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// MGRSCoord is a parsed MGRS grid reference.
type MGRSCoord struct {
	Zone         int    `json:"zone" yaml:"zone"`
	LatitudeBand string `json:"latitudeBand" yaml:"latitudeBand"`
	GridSquare   string `json:"gridSquare" yaml:"gridSquare"`
	Easting      string `json:"easting" yaml:"easting"`
	Northing     string `json:"northing" yaml:"northing"`
	Formatted    string `json:"formatted" yaml:"formatted"`
}

// Precision is the number of digits in each of the easting and northing
// groups: 5 for 1 m, 3 for 100 m.
func (m MGRSCoord) Precision() int {
	return len(m.Easting)
}

func (m MGRSCoord) String() string {
	return m.Formatted
}

// MGRS is a coordinate converter to and from MGRS coordinates. Only the
// UTM based (non-polar) part of the grid is supported.
type MGRS struct {
	utm *UTM
}

const espilon2 = 4.99e-4
const mgrsMaxPrecision = 5                             // Maximum precision of easting & northing
const minMGRSNonPolarLat = (-80.0 * (math.Pi / 180.0)) // -80 deg in rad
const maxMGRSNonPolarLat = (84.0 * (math.Pi / 180.0))  //  84 deg in rad
const mgrsMinEasting = 100000.0
const mgrsMaxEasting = 900000.0
const mgrsMinNorthing = 0.0
const mgrsMaxNorthing = 10000000.0

// gridLetters are the 24 letters used in MGRS references. Column letters
// run over all of them in three sets of eight, row letters over the first
// twenty.
const gridLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"

const rowLetterCount = 20

type latitudeBand struct {
	letter         byte
	minNorthing    float64 // minimum northing for latitude band
	north          float64 // upper latitude for latitude band
	south          float64 // lower latitude for latitude band
	northingOffset float64 // latitude band northing offset
}

var latitudeBands = [20]latitudeBand{
	{'C', 1100000.0, -72.0, -80.5, 0.0},
	{'D', 2000000.0, -64.0, -72.0, 2000000.0},
	{'E', 2800000.0, -56.0, -64.0, 2000000.0},
	{'F', 3700000.0, -48.0, -56.0, 2000000.0},
	{'G', 4600000.0, -40.0, -48.0, 4000000.0},
	{'H', 5500000.0, -32.0, -40.0, 4000000.0},
	{'J', 6400000.0, -24.0, -32.0, 6000000.0},
	{'K', 7300000.0, -16.0, -24.0, 6000000.0},
	{'L', 8200000.0, -8.0, -16.0, 8000000.0},
	{'M', 9100000.0, 0.0, -8.0, 8000000.0},
	{'N', 0.0, 8.0, 0.0, 0.0},
	{'P', 800000.0, 16.0, 8.0, 0.0},
	{'Q', 1700000.0, 24.0, 16.0, 0.0},
	{'R', 2600000.0, 32.0, 24.0, 2000000.0},
	{'S', 3500000.0, 40.0, 32.0, 2000000.0},
	{'T', 4400000.0, 48.0, 40.0, 4000000.0},
	{'U', 5300000.0, 56.0, 48.0, 4000000.0},
	{'V', 6200000.0, 64.0, 56.0, 6000000.0},
	{'W', 7000000.0, 72.0, 64.0, 6000000.0},
	{'X', 7900000.0, 84.5, 72.0, 6000000.0}}

// NewMGRS constructs an MGRS converter on top of a UTM converter.
func NewMGRS(utm *UTM) *MGRS {
	return &MGRS{utm: utm}
}

// ConvertFromGeodetic converts geodetic (latitude and longitude) coordinates
// to an MGRS coordinate string with precision digits per axis.
func (m *MGRS) ConvertFromGeodetic(geodeticCoordinates s2.LatLng, precision int) (string, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	longitude := geodeticCoordinates.Lng.Radians()

	if latitude < -math.Pi/2-epsilonRadians || latitude > math.Pi/2+epsilonRadians {
		return "", ErrLatitudeRange
	}
	if longitude < -math.Pi-epsilonRadians || longitude > math.Pi+epsilonRadians {
		return "", ErrLongitudeRange
	}
	if precision < 0 || precision > mgrsMaxPrecision {
		return "", newError(ErrUnsupportedPrecision, "MGRS precision %d out of range", precision)
	}
	if latitude < minMGRSNonPolarLat-epsilonRadians || latitude >= maxMGRSNonPolarLat+epsilonRadians {
		return "", newError(ErrConversion, "latitude %.6f is outside the non-polar MGRS grid", geodeticCoordinates.Lat.Degrees())
	}

	band, err := latitudeBandLetter(latitude)
	if err != nil {
		return "", err
	}

	utmCoordinates, err := m.utm.ConvertFromGeodetic(geodeticCoordinates, 0)
	if err != nil {
		return "", err
	}
	if override := specialZone(band, utmCoordinates); override != 0 {
		utmCoordinates, err = m.utm.ConvertFromGeodetic(geodeticCoordinates, override)
		if err != nil {
			return "", err
		}
	}
	return makeMGRSString(utmCoordinates, band, latitude, precision)
}

// specialZone returns the zone the Norway and Svalbard exceptions move a
// point into, or 0 when its natural zone stands.
func specialZone(band byte, utm UTMCoord) int {
	east := utm.Easting >= 500000.0
	switch band {
	case 'V':
		if utm.Zone == 31 && east {
			return 32 // extension of zone 32V
		}
	case 'X':
		switch {
		case utm.Zone == 32 && !east:
			return 31 // extension of zone 31X
		case utm.Zone == 32 && east, utm.Zone == 34 && !east:
			return 33
		case utm.Zone == 34 && east, utm.Zone == 36 && !east:
			return 35
		case utm.Zone == 36 && east:
			return 37 // western extension of zone 37X
		}
	}
	return 0
}

// makeMGRSString truncates easting and northing to the requested precision
// and builds the reference from zone, band, 100 km square and digits.
func makeMGRSString(utm UTMCoord, band byte, latitude float64, precision int) (string, error) {
	divisor := computeScale(precision)
	easting := math.Floor((utm.Easting+espilon2)/divisor) * divisor
	northing := math.Floor((utm.Northing+espilon2)/divisor) * divisor

	if latitude <= 0.0 && northing == 1.0e7 {
		northing = 0.0
	}

	columnOffset, patternOffset := gridValues(utm.Zone)

	gridNorthing := math.Mod(northing, 2000000) + patternOffset
	if gridNorthing >= 2000000 {
		gridNorthing -= 2000000
	}
	row := int(gridNorthing / 100000)
	column := columnOffset + int(easting/100000) - 1
	if row < 0 || row >= rowLetterCount || column < columnOffset || column >= columnOffset+8 {
		return "", newError(ErrConversion, "invalid letters")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%02d%c%c%c", utm.Zone, band, gridLetters[column], gridLetters[row])

	easting = math.Mod(easting, 100000.0)
	if easting >= 99999.5 {
		easting = 99999.0
	}
	northing = math.Mod(northing, 100000.0)
	if northing >= 99999.5 {
		northing = 99999.0
	}
	if precision > 0 {
		const half = 4.99e-1
		fmt.Fprintf(&b, "%0*d%0*d", precision, int((easting+half)/divisor), precision, int((northing+half)/divisor))
	}
	return b.String(), nil
}

// computeScale returns the size in meters of one digit step at precision.
func computeScale(precision int) float64 {
	return math.Pow10(mgrsMaxPrecision - precision)
}

// gridValues returns the index in gridLetters of the first column letter
// for zone's set, and the northing at which row letter A starts.
func gridValues(zone int) (columnOffset int, patternOffset float64) {
	setNumber := zone % 6
	if setNumber == 0 {
		setNumber = 6
	}
	columnOffset = 8 * ((setNumber - 1) % 3)
	if setNumber%2 == 0 {
		patternOffset = 500000.0
	}
	return columnOffset, patternOffset
}

// latitudeBandLetter returns the MGRS latitude band for latitude (radians).
func latitudeBandLetter(latitude float64) (byte, error) {
	const lat72 = 72.0 * math.Pi / 180
	const lat845 = 84.5 * math.Pi / 180
	const lat80 = 80.0 * math.Pi / 180
	const lat805 = 80.5 * math.Pi / 180
	const lat8 = 8.0 * math.Pi / 180

	switch {
	case latitude >= lat72 && latitude < lat845:
		return 'X', nil
	case latitude > -lat805 && latitude < lat72:
		band := int((latitude+lat80)/lat8 + 1.0e-12)
		if band < 0 {
			band = 0
		}
		return latitudeBands[band].letter, nil
	}
	return 0, newError(ErrConversion, "latitude out of range")
}

func findLatitudeBand(letter byte) (latitudeBand, bool) {
	for _, b := range latitudeBands {
		if b.letter == letter {
			return b, true
		}
	}
	return latitudeBand{}, false
}

var mgrsPattern = regexp.MustCompile(`^(\d{1,2})([A-Z])([A-Z]{2})(\d*)$`)

// ParseMGRS breaks an MGRS reference into its parts. Whitespace and
// hyphens are ignored and letters may be lower case.
func ParseMGRS(s string) (MGRSCoord, error) {
	clean := normalize(s)
	match := mgrsPattern.FindStringSubmatch(clean)
	if match == nil {
		return MGRSCoord{}, newError(ErrConversion, "invalid MGRS reference: %s", s)
	}

	zone, _ := strconv.Atoi(match[1])
	if zone < 1 || zone > 60 {
		return MGRSCoord{}, newError(ErrConversion, "MGRS zone out of range: %s", s)
	}
	band := match[2][0]
	if _, ok := findLatitudeBand(band); !ok {
		return MGRSCoord{}, newError(ErrConversion, "invalid MGRS latitude band %c", band)
	}
	square := match[3]
	if strings.ContainsAny(square, "IO") {
		return MGRSCoord{}, newError(ErrConversion, "invalid MGRS grid square %s", square)
	}
	digits := match[4]
	if len(digits)%2 != 0 || len(digits) > 2*mgrsMaxPrecision {
		return MGRSCoord{}, newError(ErrUnsupportedPrecision, "Unsupported MGRS format: %s", s)
	}
	n := len(digits) / 2

	return MGRSCoord{
		Zone:         zone,
		LatitudeBand: string(band),
		GridSquare:   square,
		Easting:      digits[:n],
		Northing:     digits[n:],
		Formatted:    fmt.Sprintf("%02d%c%s%s", zone, band, square, digits),
	}, nil
}

// ToUTM returns the south west corner of the grid cell.
func (m *MGRS) ToUTM(c MGRSCoord) (UTMCoord, error) {
	band := c.LatitudeBand[0]
	column := c.GridSquare[0]
	zone := c.Zone

	if band == 'X' && (zone == 32 || zone == 34 || zone == 36) {
		return UTMCoord{}, newError(ErrConversion, "invalid letters")
	}
	if band == 'V' && zone == 31 && column > 'D' {
		return UTMCoord{}, newError(ErrConversion, "invalid letters")
	}

	hemisphere := HemisphereNorth
	if band < 'N' {
		hemisphere = HemisphereSouth
	}

	columnOffset, patternOffset := gridValues(zone)
	columnIndex := strings.IndexByte(gridLetters, column) - columnOffset
	rowIndex := strings.IndexByte(gridLetters, c.GridSquare[1])
	if columnIndex < 0 || columnIndex >= 8 || rowIndex < 0 || rowIndex >= rowLetterCount {
		return UTMCoord{}, newError(ErrConversion, "invalid letters")
	}

	latBand, ok := findLatitudeBand(band)
	if !ok {
		return UTMCoord{}, newError(ErrConversion, "invalid MGRS")
	}

	gridNorthing := float64(rowIndex)*100000 - patternOffset
	if gridNorthing < 0 {
		gridNorthing += 2000000
	}
	gridNorthing += latBand.northingOffset
	if gridNorthing < latBand.minNorthing {
		gridNorthing += 2000000
	}

	precision := c.Precision()
	multiplier := computeScale(precision)
	var east, north int
	if precision > 0 {
		var err error
		if east, err = strconv.Atoi(c.Easting); err != nil {
			return UTMCoord{}, newError(ErrConversion, "invalid MGRS easting %q", c.Easting)
		}
		if north, err = strconv.Atoi(c.Northing); err != nil {
			return UTMCoord{}, newError(ErrConversion, "invalid MGRS northing %q", c.Northing)
		}
	}

	utmCoordinates := UTMCoord{
		Zone:       zone,
		Hemisphere: hemisphere,
		Easting:    float64(columnIndex+1)*100000 + float64(east)*multiplier,
		Northing:   gridNorthing + float64(north)*multiplier,
	}

	// check that point is within Zone Letter bounds
	geodeticCoordinates, err := m.utm.ConvertToGeodetic(utmCoordinates)
	if err != nil {
		return UTMCoord{}, err
	}
	latitude := geodeticCoordinates.Lat.Degrees()
	border := 1 / (100000 / multiplier)
	if !inLatitudeRange(latBand, latitude, border) {
		// a 100 km square may straddle the band edge
		prev, next := adjacentBands(band)
		if !inLatitudeRange(prev, latitude, border) || !inLatitudeRange(next, latitude, border) {
			return UTMCoord{}, newError(ErrConversion, "MGRS invalid: %s is outside latitude band %c", c.Formatted, band)
		}
	}
	return utmCoordinates, nil
}

func adjacentBands(letter byte) (prev, next latitudeBand) {
	for i, b := range latitudeBands {
		if b.letter != letter {
			continue
		}
		prev, next = b, b
		if i > 0 {
			prev = latitudeBands[i-1]
		}
		if i < len(latitudeBands)-1 {
			next = latitudeBands[i+1]
		}
	}
	return prev, next
}

func inLatitudeRange(b latitudeBand, latitude, border float64) bool {
	return b.south-border <= latitude && latitude <= b.north+border
}

// ConvertToGeodetic converts an MGRS coordinate string to the geodetic
// position of the south west corner of its grid cell.
func (m *MGRS) ConvertToGeodetic(mgrs string) (s2.LatLng, error) {
	c, err := ParseMGRS(mgrs)
	if err != nil {
		return s2.LatLng{}, err
	}
	utm, err := m.ToUTM(c)
	if err != nil {
		return s2.LatLng{}, err
	}
	return m.utm.ConvertToGeodetic(utm)
}

// Bounds returns the geodetic bounding box of the grid cell an MGRS
// reference names. Its size is set by the reference's precision.
func (m *MGRS) Bounds(mgrs string) (Bounds, error) {
	c, err := ParseMGRS(mgrs)
	if err != nil {
		return Bounds{}, err
	}
	sw, err := m.ToUTM(c)
	if err != nil {
		return Bounds{}, err
	}
	size := computeScale(c.Precision())
	ne := sw
	ne.Easting += size
	ne.Northing += size

	swGeo, err := m.utm.ConvertToGeodetic(sw)
	if err != nil {
		return Bounds{}, err
	}
	neGeo, err := m.utm.ConvertToGeodetic(ne)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{SouthWest: LatLonFromS2(swGeo), NorthEast: LatLonFromS2(neGeo)}, nil
}

// MGRSToLatLon returns the centre of the grid cell named by mgrs.
func MGRSToLatLon(mgrs string) (LatLon, error) {
	b, err := DefaultMGRSConverter.Bounds(mgrs)
	if err != nil {
		return LatLon{}, err
	}
	return b.Center(), nil
}

// LatLonToMGRS returns the MGRS reference of coords with precision digits
// per axis.
func LatLonToMGRS(coords LatLon, precision int) (string, error) {
	if err := coords.Validate(); err != nil {
		return "", err
	}
	return DefaultMGRSConverter.ConvertFromGeodetic(coords.S2(), precision)
}
