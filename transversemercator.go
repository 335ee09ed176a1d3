package mmgrid

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const krugerTerms = 6

// Krüger series coefficients for the WGS84 ellipsoid (C. Rollins, 2006).
// alpha maps the conformal sphere onto the projection plane, beta is its
// inverse. Both are series in Helmert's n and depend only on the
// flattening.
var (
	wgs84Alpha = [krugerTerms]float64{
		8.3773182062446983032e-04,
		7.608527773572489156e-07,
		1.19764550324249210e-09,
		2.4291706803973131e-12,
		5.711818369154105e-15,
		1.47999802705262e-17,
	}
	wgs84Beta = [krugerTerms]float64{
		-8.3773216405794867707e-04,
		-5.905870152220365181e-08,
		-1.67348266534382493e-10,
		-2.1647981104903862e-13,
		-3.787930968839601e-16,
		-7.23676928796690e-19,
	}
)

// MapCoords is an easting/northing pair on a projection plane, in meters.
type MapCoords struct {
	Easting  float64
	Northing float64
}

// TransverseMercator provides conversions between geodetic coordinates and
// a single WGS84 Transverse Mercator plane whose origin lies on the equator.
type TransverseMercator struct {
	centralMeridian float64 // radians, in (-Pi, Pi]
	falseEasting    float64
	falseNorthing   float64
	eccentricity    float64

	k0R4    float64 // scale factor * meridional isoperimetric radius
	k0R4inv float64
}

// NewTransverseMercator constructs a WGS84 Transverse Mercator projection
// centred on centralMeridian (radians).
func NewTransverseMercator(centralMeridian, falseEasting, falseNorthing, scaleFactor float64) (*TransverseMercator, error) {
	if centralMeridian < -math.Pi || centralMeridian > 2*math.Pi {
		return nil, newError(ErrConversion, "central meridian out of range")
	}
	const minScaleFactor = 0.1
	const maxScaleFactor = 10.0
	if scaleFactor < minScaleFactor || scaleFactor > maxScaleFactor {
		return nil, newError(ErrConversion, "scale factor out of range")
	}
	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}

	t := &TransverseMercator{
		centralMeridian: centralMeridian,
		falseEasting:    falseEasting,
		falseNorthing:   falseNorthing,
		eccentricity:    math.Sqrt(2*wgs84Flattening - wgs84Flattening*wgs84Flattening),
	}
	t.k0R4 = rectifyingRatio(wgs84Flattening) * scaleFactor * wgs84SemiMajorAxis
	t.k0R4inv = 1 / t.k0R4
	return t, nil
}

// rectifyingRatio returns R4/a, the meridional isoperimetric radius over
// the semi-major axis, for an ellipsoid of flattening f.
func rectifyingRatio(f float64) float64 {
	n := f / (2 - f)
	n2 := n * n
	n4 := n2 * n2
	n6 := n4 * n2
	n8 := n6 * n2
	n10 := n8 * n2
	return (1 + n2/4 + n4/64 + n6/256 + 25*n8/16384 + 49*n10/65536) / (1 + n)
}

// ConvertFromGeodetic projects a geodetic coordinate onto the plane.
func (t *TransverseMercator) ConvertFromGeodetic(geodeticCoordinates s2.LatLng) (MapCoords, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	lambda := wrapRadians(geodeticCoordinates.Lng.Radians() - t.centralMeridian)
	if err := checkMeridianDistance(latitude, lambda); err != nil {
		return MapCoords{}, err
	}

	sinPhi, cosPhi := math.Sincos(latitude)
	sinLam, cosLam := math.Sincos(lambda)

	// geodetic latitude to conformal latitude
	p := math.Exp(t.eccentricity * math.Atanh(t.eccentricity*sinPhi))
	part1 := (1 + sinPhi) / p
	part2 := (1 - sinPhi) * p
	denom := part1 + part2
	cosChi := 2 * cosPhi / denom
	sinChi := (part1 - part2) / denom

	// spherical transverse mercator
	u := math.Atanh(cosChi * sinLam)
	v := math.Atan2(sinChi, cosChi*cosLam)

	x, y := u, v
	for k := krugerTerms; k >= 1; k-- {
		c := float64(2 * k)
		x += wgs84Alpha[k-1] * math.Sinh(c*u) * math.Cos(c*v)
		y += wgs84Alpha[k-1] * math.Cosh(c*u) * math.Sin(c*v)
	}

	return MapCoords{
		Easting:  t.falseEasting + t.k0R4*x,
		Northing: t.falseNorthing + t.k0R4*y,
	}, nil
}

// ConvertToGeodetic converts plane coordinates back to latitude and
// longitude.
func (t *TransverseMercator) ConvertToGeodetic(mapCoordinates MapCoords) (s2.LatLng, error) {
	const maxDeltaEasting = 20000000.0
	const maxDeltaNorthing = 10000000.0
	if math.Abs(mapCoordinates.Easting-t.falseEasting) > maxDeltaEasting {
		return s2.LatLng{}, newError(ErrConversion, "easting out of range")
	}
	if math.Abs(mapCoordinates.Northing-t.falseNorthing) > maxDeltaNorthing {
		return s2.LatLng{}, newError(ErrConversion, "northing out of range")
	}

	x := t.k0R4inv * (mapCoordinates.Easting - t.falseEasting)
	y := t.k0R4inv * (mapCoordinates.Northing - t.falseNorthing)

	u, v := x, y
	for k := krugerTerms; k >= 1; k-- {
		c := float64(2 * k)
		u += wgs84Beta[k-1] * math.Sinh(c*x) * math.Cos(c*y)
		v += wgs84Beta[k-1] * math.Cosh(c*x) * math.Sin(c*y)
	}

	coshU := math.Cosh(u)
	sinV, cosV := math.Sincos(v)
	lambda := math.Atan2(math.Sinh(u), cosV)
	latitude := geodeticLatitude(sinV/coshU, t.eccentricity)
	if math.Abs(latitude) > math.Pi/2 {
		return s2.LatLng{}, newError(ErrConversion, "northing out of range")
	}
	longitude := wrapRadians(t.centralMeridian + lambda)

	return s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}, nil
}

// checkMeridianDistance rejects points more than 70 degrees from the
// central meridian, where the series no longer converges usefully.
// Points near either pole are always accepted.
func checkMeridianDistance(latitude, lambda float64) error {
	testAngle := math.Min(math.Abs(lambda), math.Abs(lambda-math.Pi))
	testAngle = math.Min(testAngle, math.Abs(lambda+math.Pi))
	testAngle = math.Min(testAngle, math.Pi/2-latitude)
	testAngle = math.Min(testAngle, math.Pi/2+latitude)

	const maxDeltaLong = 70 * math.Pi / 180
	if testAngle > maxDeltaLong {
		return newError(ErrConversion, "longitude out of range")
	}
	return nil
}

// geodeticLatitude inverts the conformal latitude by fixed point
// iteration.
func geodeticLatitude(sinChi, e float64) float64 {
	s := sinChi
	sOld := 1.0e99
	onePlusSinChi := 1 + sinChi
	oneMinusSinChi := 1 - sinChi

	for n := 0; n < 30; n++ {
		p := math.Exp(e * math.Atanh(e*s))
		pSq := p * p
		s = (onePlusSinChi*pSq - oneMinusSinChi) / (onePlusSinChi*pSq + oneMinusSinChi)
		if math.Abs(s-sOld) < 1.0e-12 {
			break
		}
		sOld = s
	}
	return math.Asin(s)
}

// wrapRadians folds an angle into (-Pi, Pi].
func wrapRadians(a float64) float64 {
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
