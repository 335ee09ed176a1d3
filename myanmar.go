package mmgrid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MyanmarGrid is a reference in the Myanmar grid notation: two grid zone
// letters followed by easting and northing digit groups of 3 (100 m) or 5
// (1 m) digits each.
type MyanmarGrid struct {
	GridZone  string `json:"gridZone" yaml:"gridZone"`
	Easting   string `json:"easting" yaml:"easting"`
	Northing  string `json:"northing" yaml:"northing"`
	Formatted string `json:"formatted" yaml:"formatted"`
}

// Precision is the number of digits in each group.
func (g MyanmarGrid) Precision() int {
	return len(g.Easting)
}

// Padded returns the 12 character form, with both digit groups padded
// with leading zeros to 5 digits.
func (g MyanmarGrid) Padded() string {
	return g.GridZone + zeroPad(g.Easting, Precision1m) + zeroPad(g.Northing, Precision1m)
}

func (g MyanmarGrid) String() string {
	return g.Formatted
}

func newMyanmarGrid(zone, easting, northing string) MyanmarGrid {
	return MyanmarGrid{
		GridZone:  zone,
		Easting:   easting,
		Northing:  northing,
		Formatted: zone + easting + northing,
	}
}

// Grid precision tiers shared by the Myanmar grid and MGRS.
const (
	Precision100m = 3
	Precision1m   = 5
)

// myanmarAlphabet is the cyclic letter sequence the 100 m grid carries
// along. I and O are never used.
const myanmarAlphabet = "ABCDEFGHJKLMNPQRSTUV"

const (
	zone46Columns = "ABCDEFGH"
	zone47Columns = "JKLMNPQR"
)

// myanmarZone is one MGRS grid zone covering Myanmar together with the
// 100 km column and row letters it uses there.
type myanmarZone struct {
	prefix  string
	utmZone int
	band    byte
	columns string
	rows    string
}

// Zone 47 is checked before zone 46. The column sets are disjoint, so the
// order never changes the outcome.
var myanmarZones = [...]myanmarZone{
	{"47P", 47, 'P', zone47Columns, "LMNPQRST"},
	{"47Q", 47, 'Q', zone47Columns, "UVABCDEFG"},
	{"47R", 47, 'R', zone47Columns, "HJKLM"},
	{"46P", 46, 'P', zone46Columns, "RSTUVABC"},
	{"46Q", 46, 'Q', zone46Columns, "DEFGHJKLM"},
	{"46R", 46, 'R', zone46Columns, "NPQRS"},
}

// GridOffset is the shift, in 100 m units, between MGRS digits and the
// legacy 100 m Myanmar grid digits.
type GridOffset struct {
	Easting  int
	Northing int
}

// LegacyGridOffset is the empirically derived 100 m grid correction:
// Myanmar easting = MGRS easting + 4, northing = MGRS northing - 3.
var LegacyGridOffset = GridOffset{Easting: 4, Northing: -3}

// zone46RowShift is how many letters the legacy grid moves zone 46 row
// letters along myanmarAlphabet (1000 km of northing).
const zone46RowShift = 10

// resolveMyanmarZone finds the zone whose column and row tables contain
// column and row.
func resolveMyanmarZone(column, row byte) (myanmarZone, bool) {
	for _, z := range myanmarZones {
		if strings.IndexByte(z.columns, column) >= 0 && strings.IndexByte(z.rows, row) >= 0 {
			return z, true
		}
	}
	return myanmarZone{}, false
}

// shiftLetter moves letter n steps along myanmarAlphabet, wrapping V to A
// and A to V.
func shiftLetter(letter byte, n int) (byte, bool) {
	i := strings.IndexByte(myanmarAlphabet, letter)
	if i < 0 {
		return 0, false
	}
	size := len(myanmarAlphabet)
	return myanmarAlphabet[((i+n)%size+size)%size], true
}

// carry adds offset to a 3 digit group. A result outside [0, 999] wraps
// and moves letter one step, like an odometer.
func carry(value, offset int, letter byte) (int, byte, bool) {
	value += offset
	step := 0
	switch {
	case value > 999:
		value -= 1000
		step = 1
	case value < 0:
		value += 1000
		step = -1
	}
	if step == 0 {
		return value, letter, true
	}
	letter, ok := shiftLetter(letter, step)
	return value, letter, ok
}

// MGRSToMyanmarGrid converts an MGRS reference inside Myanmar's grid zones
// (46P-46R, 47P-47R) to the Myanmar grid. At 1 m precision letters and
// digits carry over unchanged. At 100 m precision the legacy grid offset
// is applied, with zone 46 row letters first moved by zone46RowShift.
func MGRSToMyanmarGrid(m MGRSCoord) (MyanmarGrid, error) {
	if len(m.GridSquare) != 2 || len(m.LatitudeBand) != 1 {
		return MyanmarGrid{}, newError(ErrConversion, "invalid MGRS reference: %s", m.Formatted)
	}
	if p := m.Precision(); p != Precision1m && p != Precision100m {
		return MyanmarGrid{}, newError(ErrUnsupportedPrecision, "Unsupported MGRS format: %s", m.Formatted)
	}
	column, row := m.GridSquare[0], m.GridSquare[1]
	// Row letters repeat every 2000 km, so a square is only accepted when
	// the lookup tables map it back to the zone it came from.
	zone, ok := resolveMyanmarZone(column, row)
	if !ok || zone.utmZone != m.Zone || zone.band != m.LatitudeBand[0] {
		return MyanmarGrid{}, newError(ErrUnresolvableZone,
			"Unable to determine Myanmar grid zone for %02d%s%s", m.Zone, m.LatitudeBand, m.GridSquare)
	}

	if m.Precision() == Precision1m {
		return newMyanmarGrid(m.GridSquare, m.Easting, m.Northing), nil
	}

	east, north, err := parseDigitGroups(m.Easting, m.Northing)
	if err != nil {
		return MyanmarGrid{}, err
	}
	if zone.utmZone == 46 {
		row, _ = shiftLetter(row, zone46RowShift)
	}
	east, column, ok = carry(east, LegacyGridOffset.Easting, column)
	if !ok {
		return MyanmarGrid{}, newError(ErrUnresolvableZone, "Unable to determine Myanmar grid zone for %s", m.Formatted)
	}
	north, row, ok = carry(north, LegacyGridOffset.Northing, row)
	if !ok {
		return MyanmarGrid{}, newError(ErrUnresolvableZone, "Unable to determine Myanmar grid zone for %s", m.Formatted)
	}
	return newMyanmarGrid(string([]byte{column, row}), fmt.Sprintf("%03d", east), fmt.Sprintf("%03d", north)), nil
}

// MyanmarGridToMGRS is the exact inverse of MGRSToMyanmarGrid.
func MyanmarGridToMGRS(g MyanmarGrid) (string, error) {
	if len(g.GridZone) != 2 {
		return "", newError(ErrUnresolvableZone, "Unable to determine MGRS zone for %s", g.GridZone)
	}
	column, row := g.GridZone[0], g.GridZone[1]
	easting, northing := g.Easting, g.Northing

	switch {
	case len(easting) == Precision1m && len(northing) == Precision1m:
	case len(easting) == Precision100m && len(northing) == Precision100m:
		east, north, err := parseDigitGroups(easting, northing)
		if err != nil {
			return "", err
		}
		var okEast, okNorth bool
		east, column, okEast = carry(east, -LegacyGridOffset.Easting, column)
		north, row, okNorth = carry(north, -LegacyGridOffset.Northing, row)
		if !okEast || !okNorth {
			return "", newError(ErrUnresolvableZone, "Unable to determine MGRS zone for %s", g.GridZone)
		}
		if strings.IndexByte(zone46Columns, column) >= 0 {
			row, _ = shiftLetter(row, -zone46RowShift)
		}
		easting, northing = fmt.Sprintf("%03d", east), fmt.Sprintf("%03d", north)
	default:
		return "", newError(ErrUnsupportedPrecision, "Unsupported MM_UTM format: %s", g.Formatted)
	}

	zone, ok := resolveMyanmarZone(column, row)
	if !ok {
		return "", newError(ErrUnresolvableZone, "Unable to determine MGRS zone for %s", g.GridZone)
	}
	return zone.prefix + string([]byte{column, row}) + easting + northing, nil
}

var myanmarGridPattern = regexp.MustCompile(`^([A-Z]{2})(\d+)$`)

// ParseMyanmarGrid parses an 8 character (100 m) or 12 character (1 m)
// Myanmar grid reference. Whitespace and hyphens are ignored.
func ParseMyanmarGrid(s string) (MyanmarGrid, error) {
	clean := normalize(s)
	match := myanmarGridPattern.FindStringSubmatch(clean)
	if match == nil {
		return MyanmarGrid{}, newError(ErrConversion, "invalid MM_UTM reference: %s", s)
	}
	digits := match[2]
	switch len(digits) {
	case 2 * Precision100m, 2 * Precision1m:
	default:
		return MyanmarGrid{}, newError(ErrUnsupportedPrecision, "Unsupported MM_UTM format: %s", s)
	}
	n := len(digits) / 2
	return newMyanmarGrid(match[1], digits[:n], digits[n:]), nil
}

func zeroPad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}

func parseDigitGroups(easting, northing string) (int, int, error) {
	east, err := strconv.Atoi(easting)
	if err != nil {
		return 0, 0, newError(ErrConversion, "invalid easting digits %q", easting)
	}
	north, err := strconv.Atoi(northing)
	if err != nil {
		return 0, 0, newError(ErrConversion, "invalid northing digits %q", northing)
	}
	return east, north, nil
}
