package mmgrid

import (
	"math"

	"github.com/golang/geo/s2"
)

// Hemisphere is the north/south half of a UTM zone.
type Hemisphere byte

// Hemisphere constants
const (
	HemisphereInvalid Hemisphere = iota
	HemisphereNorth
	HemisphereSouth
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereNorth:
		return "N"
	case HemisphereSouth:
		return "S"
	}
	return "?"
}

// MarshalText encodes the hemisphere as its letter.
func (h Hemisphere) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes "N" or "S".
func (h *Hemisphere) UnmarshalText(b []byte) error {
	switch string(b) {
	case "N", "n":
		*h = HemisphereNorth
	case "S", "s":
		*h = HemisphereSouth
	default:
		return newError(ErrConversion, "hemisphere out of range: %q", b)
	}
	return nil
}

// UTMCoord is a UTM coordinate
type UTMCoord struct {
	Zone       int        `json:"zone" yaml:"zone"`
	Hemisphere Hemisphere `json:"hemisphere" yaml:"hemisphere"`
	Easting    float64    `json:"easting" yaml:"easting"`
	Northing   float64    `json:"northing" yaml:"northing"`
}

// UTM is a UTM coordinate converter
type UTM struct {
	transverseMercatorMap [61]*TransverseMercator
}

const utmMinEasting = 100000.0
const utmMaxEasting = 900000.0
const utmMinNorthing = 0.0
const utmMaxNorthing = 10000000.0
const utmFalseEasting = 500000.0
const utmSouthFalseNorthing = 10000000.0
const utmScaleFactor = 0.9996

const epsilonRadians = 1.75e-7 // approx 1.0e-5 degrees (~1 meter) in radians

// NewUTM constructs a new UTM converter for the WGS84 ellipsoid
func NewUTM() (*UTM, error) {
	u := &UTM{}
	for zone := 1; zone <= 60; zone++ {
		centralMeridian := float64(6*zone-183) * math.Pi / 180
		var err error
		u.transverseMercatorMap[zone], err = NewTransverseMercator(centralMeridian, utmFalseEasting, 0, utmScaleFactor)
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

// ZoneForLongitude returns the 6 degree UTM zone containing lon, which is
// floor((lon+180)/6)+1. The 180th meridian belongs to zone 60.
func ZoneForLongitude(lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}
	if zone < 1 {
		zone = 1
	}
	return zone
}

// HemisphereForLatitude returns HemisphereNorth for lat >= 0.
func HemisphereForLatitude(lat float64) Hemisphere {
	if lat < 0 {
		return HemisphereSouth
	}
	return HemisphereNorth
}

// ConvertFromGeodetic converts geodetic (latitude and longitude) coordinates
// to UTM projection (zone, hemisphere, easting and northing) coordinates.
// The point's natural zone is used unless utmZoneOverride names a zone at
// most one away from it.
func (u *UTM) ConvertFromGeodetic(geodeticCoordinates s2.LatLng, utmZoneOverride int) (UTMCoord, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	longitude := geodeticCoordinates.Lng.Radians()
	if latitude < -math.Pi/2-epsilonRadians || latitude > math.Pi/2+epsilonRadians {
		return UTMCoord{}, ErrLatitudeRange
	}
	if longitude < -math.Pi-epsilonRadians || longitude > math.Pi+epsilonRadians {
		return UTMCoord{}, ErrLongitudeRange
	}

	naturalZone := ZoneForLongitude((longitude + 1.0e-10) * 180 / math.Pi)
	zone := naturalZone
	if utmZoneOverride != 0 {
		switch {
		case zone == 1 && utmZoneOverride == 60, zone == 60 && utmZoneOverride == 1:
		case zone-1 <= utmZoneOverride && utmZoneOverride <= zone+1:
		default:
			return UTMCoord{}, newError(ErrConversion, "zone out of range")
		}
		zone = utmZoneOverride
	}

	hemisphere := HemisphereForLatitude(latitude)
	coords, err := u.transverseMercatorMap[zone].ConvertFromGeodetic(geodeticCoordinates)
	if err != nil {
		return UTMCoord{}, err
	}
	if hemisphere == HemisphereSouth {
		coords.Northing += utmSouthFalseNorthing
	}
	if zone != naturalZone && (coords.Easting < utmMinEasting || coords.Easting > utmMaxEasting) {
		return UTMCoord{}, newError(ErrConversion, "easting out of range")
	}

	return UTMCoord{
		Zone:       zone,
		Hemisphere: hemisphere,
		Easting:    coords.Easting,
		Northing:   coords.Northing,
	}, nil
}

// ConvertToGeodetic converts UTM projection (zone, hemisphere, easting and
// northing) coordinates to geodetic (latitude and longitude) coordinates.
func (u *UTM) ConvertToGeodetic(utmCoordinates UTMCoord) (s2.LatLng, error) {
	if utmCoordinates.Zone < 1 || utmCoordinates.Zone > 60 {
		return s2.LatLng{}, newError(ErrConversion, "zone out of range")
	}
	if utmCoordinates.Hemisphere != HemisphereSouth && utmCoordinates.Hemisphere != HemisphereNorth {
		return s2.LatLng{}, newError(ErrConversion, "hemisphere out of range")
	}
	if utmCoordinates.Easting < utmMinEasting || utmCoordinates.Easting > utmMaxEasting {
		return s2.LatLng{}, newError(ErrConversion, "easting out of range")
	}
	if utmCoordinates.Northing < utmMinNorthing || utmCoordinates.Northing > utmMaxNorthing {
		return s2.LatLng{}, newError(ErrConversion, "northing out of range")
	}

	northing := utmCoordinates.Northing
	if utmCoordinates.Hemisphere == HemisphereSouth {
		northing -= utmSouthFalseNorthing
	}
	return u.transverseMercatorMap[utmCoordinates.Zone].ConvertToGeodetic(
		MapCoords{Easting: utmCoordinates.Easting, Northing: northing})
}

// LatLonToUTM projects a WGS84 point into zone floor((lon+180)/6)+1,
// rounding easting and northing to the centimetre.
func LatLonToUTM(coords LatLon) (UTMCoord, error) {
	if err := coords.Validate(); err != nil {
		return UTMCoord{}, err
	}
	utm, err := DefaultUTMConverter.ConvertFromGeodetic(coords.S2(), ZoneForLongitude(coords.Longitude))
	if err != nil {
		return UTMCoord{}, err
	}
	utm.Easting = roundTo(utm.Easting, 2)
	utm.Northing = roundTo(utm.Northing, 2)
	return utm, nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
