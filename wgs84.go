package mmgrid

import "fmt"

const (
	wgs84SemiMajorAxis = 6378137.0
	wgs84Flattening    = 1 / 298.257223563
)

// DefaultUTMConverter is a WGS84 ellipsoid based UTM converter.
var DefaultUTMConverter *UTM

// DefaultMGRSConverter is a WGS84 ellipsoid based MGRS converter.
var DefaultMGRSConverter *MGRS

// defaultConverter backs ConvertCoordinates.
var defaultConverter *Converter

func init() {
	var err error
	DefaultUTMConverter, err = NewUTM()
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 UTM converter: %s", err))
	}
	DefaultMGRSConverter = NewMGRS(DefaultUTMConverter)
	defaultConverter, err = NewConverter(DefaultOptions())
	if err != nil {
		panic(fmt.Sprintf("error constructing default converter: %s", err))
	}
}
