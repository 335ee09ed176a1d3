package mmgrid

import (
	"fmt"
	"math"
	"strconv"
)

// FormatUTMCoordinates renders utm as "<zone><hemisphere> <easting>E
// <northing>N", printing each number in its shortest form.
func FormatUTMCoordinates(utm UTMCoord) string {
	return fmt.Sprintf("%d%s %sE %sN", utm.Zone, utm.Hemisphere,
		strconv.FormatFloat(utm.Easting, 'f', -1, 64),
		strconv.FormatFloat(utm.Northing, 'f', -1, 64))
}

// FormatLatLon renders a point as "lat, lon" with 7 decimals.
func FormatLatLon(l LatLon) string {
	return fmt.Sprintf("%.7f, %.7f", l.Latitude, l.Longitude)
}

// ConvertDDToDMS renders decimal degrees as degrees, minutes and seconds,
// e.g. 16° 52' 45.88" N.
func ConvertDDToDMS(value float64, isLatitude bool) string {
	var direction string
	switch {
	case isLatitude && value >= 0:
		direction = "N"
	case isLatitude:
		direction = "S"
	case value >= 0:
		direction = "E"
	default:
		direction = "W"
	}

	abs := math.Abs(value)
	degrees := math.Floor(abs)
	minutesFull := (abs - degrees) * 60
	minutes := math.Floor(minutesFull)
	seconds := math.Round((minutesFull-minutes)*60*100) / 100

	if seconds >= 60 {
		seconds -= 60
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		degrees++
	}
	return fmt.Sprintf("%d° %d' %.2f\" %s", int(degrees), int(minutes), seconds, direction)
}
