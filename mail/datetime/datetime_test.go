package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Strict(t *testing.T) {
	got, obsolete, ok := Parse("Fri, 21 Nov 1997 09:55:06 -0600")
	require.True(t, ok)
	require.False(t, obsolete)
	want := time.Date(1997, time.November, 21, 9, 55, 6, 0, time.FixedZone("", -6*3600))
	require.True(t, want.Equal(got))
}

func TestParse_ObsoleteTwoDigitYearNamedZone(t *testing.T) {
	got, obsolete, ok := Parse("21 Nov 97 09:55 EST")
	require.True(t, ok)
	require.True(t, obsolete)
	want := time.Date(1997, time.November, 21, 9, 55, 0, 0, time.FixedZone("", -5*3600))
	require.True(t, want.Equal(got))
}

func TestParse_Rejects(t *testing.T) {
	_, _, ok := Parse("not a date at all")
	require.False(t, ok)
}

func TestParse_TwoDigitYearBoundary(t *testing.T) {
	got, obsolete, ok := Parse("1 Jan 50 00:00:00 GMT")
	require.True(t, ok)
	require.True(t, obsolete)
	require.Equal(t, 1950, got.Year())
}
