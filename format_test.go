package mmgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertDDToDMS(t *testing.T) {
	assert.Equal(t, `16° 52' 45.88" N`, ConvertDDToDMS(16.8794118, true))
	assert.Equal(t, `96° 8' 31.54" E`, ConvertDDToDMS(96.1420957, false))
	assert.Equal(t, `33° 52' 7.68" S`, ConvertDDToDMS(-33.8688, true))
	assert.Equal(t, `73° 58' 16.32" W`, ConvertDDToDMS(-73.9712, false))
	assert.Equal(t, `0° 0' 0.00" N`, ConvertDDToDMS(0, true))
	// 59.999 seconds rounds up into the next degree
	assert.Equal(t, `11° 0' 0.00" E`, ConvertDDToDMS(10.99999999, false))
}

func TestFormatUTMCoordinates(t *testing.T) {
	assert.Equal(t, "46N 799924.99E 2300244.99N",
		FormatUTMCoordinates(UTMCoord{Zone: 46, Hemisphere: HemisphereNorth, Easting: 799924.99, Northing: 2300244.99}))
	assert.Equal(t, "56S 334368.6E 6250948.35N",
		FormatUTMCoordinates(UTMCoord{Zone: 56, Hemisphere: HemisphereSouth, Easting: 334368.6, Northing: 6250948.35}))
	assert.Equal(t, "31N 166021E 0N",
		FormatUTMCoordinates(UTMCoord{Zone: 31, Hemisphere: HemisphereNorth, Easting: 166021, Northing: 0}))
}

func TestFormatLatLon(t *testing.T) {
	assert.Equal(t, "16.8794118, 96.1420957", FormatLatLon(LatLon{16.8794118, 96.1420957}))
	assert.Equal(t, "-1.5000000, 2.0000000", LatLon{-1.5, 2}.String())
}
