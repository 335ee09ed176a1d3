package mmgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"16.88, 96.14", FormatLATLON},
		{"-33.8688,151.2093", FormatLATLON},
		{"16.88\t96.14", FormatLATLON},
		{"16.88, abc", FormatLATLON},
		{"JU958681", FormatMMUTM},
		{"JU9549568421", FormatMMUTM},
		{"ju 95495 68421", FormatMMUTM},
		{"47QJU9549568421", FormatMGRS},
		{"47Q JU 954 684", FormatMGRS},
		{"4QFJ1234", FormatMGRS},
		{"12345", FormatUnknown},
		{"", FormatUnknown},
		{"JU95495684", FormatUnknown},
		{"47IJU9549568421", FormatUnknown},
		{"47QJU95495", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.in))
		})
	}
}

func TestParseLatLon(t *testing.T) {
	got, err := ParseLatLon(" 20.7779105 , 95.2207137 ")
	require.NoError(t, err)
	assert.Equal(t, LatLon{20.7779105, 95.2207137}, got)

	got, err = ParseLatLon("-1.5\t-2.25")
	require.NoError(t, err)
	assert.Equal(t, LatLon{-1.5, -2.25}, got)

	// range is checked later
	got, err = ParseLatLon("95, 96")
	require.NoError(t, err)
	assert.Equal(t, LatLon{95, 96}, got)

	got, err = ParseLatLon("16.88,\t96.14")
	require.NoError(t, err)
	assert.Equal(t, LatLon{16.88, 96.14}, got)

	for _, bad := range []string{"16.88, abc", "16.88", "1,2,3", ",", "16.88,96.14,", "16.88\t96.14\t"} {
		_, err := ParseLatLon(bad)
		assert.ErrorIs(t, err, ErrConversion, bad)
	}
}
