package mmgrid

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

func TestConvertLatLon(t *testing.T) {
	res := ConvertCoordinates("20.7779105,95.2207137")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, FormatLATLON, res.InputFormat)
	assert.Equal(t, &LatLon{20.7779105, 95.2207137}, res.LatLon)
	require.NotNil(t, res.UTM)
	assert.Equal(t, 46, res.UTM.Zone)
	require.NotNil(t, res.MGRS)
	assert.Equal(t, "46QGH3117999158", res.MGRS.Formatted)
	require.NotNil(t, res.MMUTM)
	assert.Equal(t, "GH3117999158", res.MMUTM.Formatted)
	assert.Empty(t, res.Error)
	assert.NoError(t, res.Err)
}

func TestConvertMyanmarGrid(t *testing.T) {
	res := ConvertCoordinates("JU9549568421")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, FormatMMUTM, res.InputFormat)
	assert.Equal(t, "JU9549568421", res.MMUTM.Formatted)
	assert.Equal(t, "47QJU9549568421", res.MGRS.Formatted)
	assert.Equal(t, 47, res.UTM.Zone)
	assert.Equal(t, HemisphereNorth, res.UTM.Hemisphere)
	assert.InDelta(t, 195495.5, res.UTM.Easting, 0.02)
	assert.InDelta(t, 1868421.5, res.UTM.Northing, 0.02)
	assert.InDelta(t, 16.8794118, res.LatLon.Latitude, 1e-5)
	assert.InDelta(t, 96.1420957, res.LatLon.Longitude, 1e-5)

	res = ConvertCoordinates("HT003999")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "46QGJ999002", res.MGRS.Formatted)
	assert.Equal(t, 46, res.UTM.Zone)
	assert.InDelta(t, 799950, res.UTM.Easting, 0.02)
	assert.InDelta(t, 2300250, res.UTM.Northing, 0.02)
}

func TestConvertMGRS(t *testing.T) {
	res := ConvertCoordinates("47QJU9549568421")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, FormatMGRS, res.InputFormat)
	assert.Equal(t, "JU9549568421", res.MMUTM.Formatted)
	assert.Equal(t, 47, res.UTM.Zone)

	// outside Myanmar there is no Myanmar grid reference
	res = ConvertCoordinates("31NAA6602100000")
	require.True(t, res.Valid, res.Error)
	assert.Nil(t, res.MMUTM)
	assert.Equal(t, 31, res.UTM.Zone)
	assert.InDelta(t, 0, res.LatLon.Latitude, 1e-4)
}

func TestConvertInvalid(t *testing.T) {
	tests := []struct {
		in     string
		format Format
		kind   ErrorKind
		msg    string
	}{
		{"95, 96", FormatLATLON, KindOutOfRangeLatitude, "Latitude must be between -90 and 90 degrees"},
		{"16, 200", FormatLATLON, KindOutOfRangeLongitude, "Longitude must be between -180 and 180 degrees"},
		{"12345", FormatUnknown, KindUnrecognizedFormat, "Unrecognized coordinate format: 12345"},
		{"ZZ999999", FormatMMUTM, KindUnresolvableGridZone, "Unable to determine MGRS zone for ZZ"},
		{"16.88, abc", FormatLATLON, KindGenericConversionError, ""},
		{"NaN, 96", FormatLATLON, KindOutOfRangeLatitude, "Latitude must be between -90 and 90 degrees"},
		{"16, NaN", FormatLATLON, KindOutOfRangeLongitude, "Longitude must be between -180 and 180 degrees"},
		{"16.88,96.14,", FormatLATLON, KindGenericConversionError, ""},
		{"47NJU9549568421", FormatMGRS, KindGenericConversionError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := ConvertCoordinates(tt.in)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.format, res.InputFormat)
			assert.Equal(t, tt.kind, ErrorKindOf(res.Err))
			assert.NotEmpty(t, res.Error)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, res.Error)
			}
			assert.Nil(t, res.LatLon)
			assert.Nil(t, res.UTM)
			assert.Nil(t, res.MMUTM)
			assert.Nil(t, res.MGRS)
		})
	}
}

func TestConvertPolar(t *testing.T) {
	res := ConvertCoordinates("89, 10")
	require.True(t, res.Valid, res.Error)
	assert.NotNil(t, res.UTM)
	assert.Nil(t, res.MGRS)
	assert.Nil(t, res.MMUTM)
}

func TestConverterOptions(t *testing.T) {
	_, err := NewConverter(Options{GridPrecision: 4})
	assert.ErrorIs(t, err, ErrUnsupportedPrecision)

	c, err := NewConverter(Options{GridPrecision: Precision100m})
	require.NoError(t, err)
	res := c.Convert("20.7779105, 95.8807137")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "46QGJ9992400244", res.MGRS.Formatted)
	assert.Equal(t, "HT003999", res.MMUTM.Formatted)
}

func TestConvertJustSouthOfEquator(t *testing.T) {
	res := ConvertCoordinates("-0.0000000001, 96")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, HemisphereSouth, res.UTM.Hemisphere)
	assert.InDelta(t, utmSouthFalseNorthing, res.UTM.Northing, 0.01)
	assert.Equal(t, "M", res.MGRS.LatitudeBand)
}

func TestMGRSInputIgnoresDatumShift(t *testing.T) {
	shifted, err := NewConverter(Options{GridPrecision: Precision1m, DatumShift: LegacyDatumShift})
	require.NoError(t, err)

	plain := ConvertCoordinates("47QJU9549568421")
	require.True(t, plain.Valid, plain.Error)
	res := shifted.Convert("47QJU9549568421")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, *plain.LatLon, *res.LatLon)
	assert.Equal(t, *plain.UTM, *res.UTM)

	// Myanmar grid input is on the legacy datum
	mm := shifted.Convert("JU9549568421")
	require.True(t, mm.Valid, mm.Error)
	assert.Equal(t, plain.LatLon.Shift(LegacyDatumShift), *mm.LatLon)
}

func TestConverterDatumShift(t *testing.T) {
	// A surveyed point and its legacy 100 m reference. The legacy grid
	// offset and the legacy datum shift are the same correction.
	const surveyed = "17.4668693, 96.4788894"

	legacy, err := NewConverter(Options{GridPrecision: Precision100m})
	require.NoError(t, err)
	res := legacy.Convert(surveyed)
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "KV326326", res.MMUTM.Formatted)
	assert.Equal(t, "47QKV3224632972", res.MGRS.Formatted)

	shifted, err := NewConverter(Options{GridPrecision: Precision1m, DatumShift: LegacyDatumShift})
	require.NoError(t, err)
	res = shifted.Convert(surveyed)
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "KV3265032650", res.MMUTM.Formatted)
	assert.Equal(t, "47QKV3265032650", res.MGRS.Formatted)
	assert.Equal(t, LatLon{17.4668693, 96.4788894}, *res.LatLon)

	back := shifted.Convert(res.MMUTM.Formatted)
	require.True(t, back.Valid, back.Error)
	assert.Less(t, metersBetween(*back.LatLon, *res.LatLon), 1.5)
}

func TestConvertRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(9.6, 28.5).Draw(t, "lat")
		lon := rapid.Float64Range(92.2, 101.1).Draw(t, "lon")

		res := ConvertCoordinates(FormatLatLon(LatLon{lat, lon}))
		require.True(t, res.Valid, res.Error)
		if res.MMUTM == nil {
			return
		}
		back := ConvertCoordinates(res.MMUTM.Formatted)
		require.True(t, back.Valid, back.Error)
		assert.Equal(t, res.MGRS.Formatted, back.MGRS.Formatted)
		assert.Less(t, metersBetween(*res.LatLon, *back.LatLon), 1.0)
	})
}

func TestErrorKindOf(t *testing.T) {
	assert.Equal(t, KindNone, ErrorKindOf(nil))
	assert.Equal(t, KindGenericConversionError, ErrorKindOf(errors.New("boom")))
	assert.Equal(t, KindOutOfRangeLatitude, ErrorKindOf(ErrLatitudeRange))
	err := newError(ErrUnresolvableZone, "Unable to determine MGRS zone for %s", "ZZ")
	assert.Equal(t, KindUnresolvableGridZone, ErrorKindOf(err))
	assert.Equal(t, "Unable to determine MGRS zone for ZZ", err.Error())
}

func TestResultEncoding(t *testing.T) {
	res := ConvertCoordinates("47QJU9549568421")
	require.True(t, res.Valid)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, true, decoded["isValid"])
	assert.Equal(t, "MGRS", decoded["inputFormat"])
	assert.Contains(t, decoded, "mmUtm")
	assert.NotContains(t, decoded, "error")
	assert.Equal(t, "N", decoded["utm"].(map[string]interface{})["hemisphere"])

	y, err := yaml.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(y), "isValid: true")
	assert.Contains(t, string(y), "formatted: JU9549568421")

	var decodedYAML Result
	require.NoError(t, yaml.Unmarshal(y, &decodedYAML))
	require.NotNil(t, decodedYAML.UTM)
	assert.Equal(t, HemisphereNorth, decodedYAML.UTM.Hemisphere)
	assert.Equal(t, *res.MGRS, *decodedYAML.MGRS)
}

func TestExamples(t *testing.T) {
	for _, e := range Examples {
		t.Run(e.Name, func(t *testing.T) {
			res := ConvertCoordinates(e.Input)
			require.True(t, res.Valid, res.Error)
			assert.Equal(t, e.Format, res.InputFormat)
			assert.Equal(t, "JU9549568421", res.MMUTM.Formatted)
		})
	}
	e, ok := LookupExample("MGRS")
	require.True(t, ok)
	assert.Equal(t, "47QJU9549568421", e.Input)
	_, ok = LookupExample("utm")
	assert.False(t, ok)
}
