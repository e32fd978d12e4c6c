package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDMS(t *testing.T) {
	loc, err := ParseDMS(`41°02'38"N 111°56'45"W 1,331 m`)
	require.NoError(t, err)

	assert.InDelta(t, 41.043889, loc.Lat, 1e-5)
	assert.InDelta(t, -111.945833, loc.Lon, 1e-5)
	assert.Equal(t, 1331.0, loc.Elev)
}

func TestParseDMS_UnicodeQuotes(t *testing.T) {
	ascii, err := ParseDMS(`41°02'38"N 111°56'45"W 1,331 m`)
	require.NoError(t, err)

	unicode, err := ParseDMS("41°02′38″N 111°56′45″W 1,331 m")
	require.NoError(t, err)

	assert.Equal(t, ascii, unicode)
}

func TestParseDMS_SouthWestAndNoElevation(t *testing.T) {
	loc, err := ParseDMS(`33°52'04"S 151°12'26"E`)
	require.NoError(t, err)

	assert.Less(t, loc.Lat, 0.0)
	assert.Greater(t, loc.Lon, 0.0)
	assert.Equal(t, 0.0, loc.Elev)
}

func TestParseDMS_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"41.04,-111.94,1331",
		`41°62'38"N 111°56'45"W 100 m`, // minutes out of range
		`41°02'38"X 111°56'45"W 100 m`,
	} {
		_, err := ParseDMS(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestFormatDMS_RoundTrip(t *testing.T) {
	orig := Location{Lat: 41.043889, Lon: -111.945833, Elev: 1331}

	parsed, err := ParseDMS(FormatDMS(orig))
	require.NoError(t, err)

	// Arcsecond precision.
	assert.InDelta(t, orig.Lat, parsed.Lat, 1.0/3600)
	assert.InDelta(t, orig.Lon, parsed.Lon, 1.0/3600)
	assert.Equal(t, math.Round(orig.Elev), parsed.Elev)
}
