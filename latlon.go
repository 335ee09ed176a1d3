package mmgrid

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// LatLon is a WGS84 position in decimal degrees.
type LatLon struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// LatLonFromS2 converts an s2.LatLng to decimal degrees.
func LatLonFromS2(ll s2.LatLng) LatLon {
	return LatLon{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()}
}

// S2 returns the point as an s2.LatLng.
func (l LatLon) S2() s2.LatLng {
	return s2.LatLngFromDegrees(l.Latitude, l.Longitude)
}

// Validate reports whether the point lies within [-90, 90] x [-180, 180].
// NaN is out of range.
func (l LatLon) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return ErrLatitudeRange
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// Shift returns l moved by d.
func (l LatLon) Shift(d DatumShift) LatLon {
	return LatLon{Latitude: l.Latitude + d.Latitude, Longitude: l.Longitude + d.Longitude}
}

// Unshift returns l moved by -d.
func (l LatLon) Unshift(d DatumShift) LatLon {
	return LatLon{Latitude: l.Latitude - d.Latitude, Longitude: l.Longitude - d.Longitude}
}

func (l LatLon) String() string {
	return FormatLatLon(l)
}

// DatumShift is a constant offset, in degrees, between the local datum a
// grid reference was surveyed in and WGS84.
type DatumShift struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// NoDatumShift leaves grid references on WGS84.
var NoDatumShift = DatumShift{}

// LegacyDatumShift is the offset observed between one surveyed Myanmar grid
// point and its WGS84 position (17.4668693, 96.4788894 against
// 17.4640042, 96.4827232). It has not been checked against other survey
// points.
var LegacyDatumShift = DatumShift{Latitude: 0.0028651, Longitude: -0.0038338}

// ParseDatumShift resolves a named datum shift.
func ParseDatumShift(name string) (DatumShift, error) {
	switch name {
	case "", "none":
		return NoDatumShift, nil
	case "legacy":
		return LegacyDatumShift, nil
	}
	return DatumShift{}, fmt.Errorf("unknown datum shift %q", name)
}

// Bounds is the geodetic footprint of an MGRS grid cell.
type Bounds struct {
	SouthWest LatLon `json:"southWest" yaml:"southWest"`
	NorthEast LatLon `json:"northEast" yaml:"northEast"`
}

// Center returns the midpoint of the bounding box, the position a grid
// reference stands for.
func (b Bounds) Center() LatLon {
	return LatLon{
		Latitude:  (b.SouthWest.Latitude + b.NorthEast.Latitude) / 2,
		Longitude: (b.SouthWest.Longitude + b.NorthEast.Longitude) / 2,
	}
}
