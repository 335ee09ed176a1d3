package mmgrid

import (
	"regexp"
	"strconv"
	"strings"
)

// Format identifies a coordinate notation.
type Format string

// Supported formats. UTM is only ever produced, never detected.
const (
	FormatLATLON  Format = "LATLON"
	FormatUTM     Format = "UTM"
	FormatMMUTM   Format = "MM_UTM"
	FormatMGRS    Format = "MGRS"
	FormatUnknown Format = "UNKNOWN"
)

func (f Format) String() string {
	return string(f)
}

var (
	latLonPattern  = regexp.MustCompile(`^-?\s*\d+(\.\d+)?\s*,\s*-?\d+(\.\d+)?\s*$`)
	mmUTMPattern   = regexp.MustCompile(`^[A-Z]{2}(\d{6}|\d{10})$`)
	mgrsRefPattern = regexp.MustCompile(`^\d{1,2}[C-HJ-NP-X][A-Z]{2}(\d{4}|\d{6}|\d{8}|\d{10})$`)
)

// normalize strips whitespace and hyphens and upper cases s.
func normalize(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', '-':
			return -1
		}
		return r
	}, s))
}

// Detect classifies raw as LATLON, MM_UTM, MGRS or UNKNOWN. Rules are
// tried in that order and the first match wins.
func Detect(raw string) Format {
	trimmed := strings.TrimSpace(raw)
	if latLonPattern.MatchString(trimmed) || strings.ContainsAny(trimmed, ",\t") {
		return FormatLATLON
	}
	clean := normalize(raw)
	switch {
	case mmUTMPattern.MatchString(clean):
		return FormatMMUTM
	case mgrsRefPattern.MatchString(clean):
		return FormatMGRS
	}
	return FormatUnknown
}

// ParseLatLon parses "lat, lon" in decimal degrees. Without a comma a tab
// separates the two fields. The range is not checked.
func ParseLatLon(s string) (LatLon, error) {
	trimmed := strings.TrimSpace(s)
	sep := ","
	if !strings.Contains(trimmed, sep) {
		sep = "\t"
	}
	fields := strings.Split(trimmed, sep)
	if len(fields) != 2 {
		return LatLon{}, newError(ErrConversion, "expected latitude and longitude separated by a comma: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return LatLon{}, newError(ErrConversion, "invalid latitude %q", strings.TrimSpace(fields[0]))
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return LatLon{}, newError(ErrConversion, "invalid longitude %q", strings.TrimSpace(fields[1]))
	}
	return LatLon{Latitude: lat, Longitude: lon}, nil
}
