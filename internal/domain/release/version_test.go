package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse checks component extraction, optional patch and loose casting.
func TestParse(t *testing.T) {
	t.Parallel()

	v := Parse("6.4.2")
	require.Equal(t, 6, v.Major)
	require.Equal(t, 4, v.Minor)
	require.Equal(t, 2, v.Patch)
	require.True(t, v.HasPatch)
	require.Empty(t, v.Suffix)

	v = Parse("6.5-beta2")
	require.Equal(t, 6, v.Major)
	require.Equal(t, 5, v.Minor)
	require.False(t, v.HasPatch)
	require.Equal(t, "beta2", v.Suffix)
	require.Equal(t, "6.5", v.Milestone())

	v = Parse("6.5-alpha-57000-src")
	require.Equal(t, "alpha-57000-src", v.Suffix)

	// Non-numeric components degrade to zero.
	v = Parse("x.7b")
	require.Equal(t, 0, v.Major)
	require.Equal(t, 7, v.Minor)

	v = Parse("")
	require.Equal(t, 0, v.Major)
	require.Equal(t, 0, v.Minor)
}

// TestVersion_IsStable verifies pre-release detection.
func TestVersion_IsStable(t *testing.T) {
	t.Parallel()

	require.True(t, Parse("6.4").IsStable())
	require.True(t, Parse("6.4.1").IsStable())
	require.False(t, Parse("6.5-beta1").IsStable())
	require.False(t, Parse("6.5-RC3").IsStable())
	require.False(t, Parse("6.5-alpha-57000-src").IsStable())
}

// TestVersion_Compare checks ordering over (major, minor, patch-or-0) with suffixes ignored.
func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, Parse("6.4").Compare(Parse("6.4.0")))
	require.Equal(t, 0, Parse("6.4-beta1").Compare(Parse("6.4-RC2")))
	require.True(t, Parse("6.3.9").Less(Parse("6.4")))
	require.True(t, Parse("5.9.3").Less(Parse("6.0")))
	require.False(t, Parse("6.4.1").Less(Parse("6.4")))
}

// TestVersion_String keeps the raw form and renders synthesized values.
func TestVersion_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "6.5-beta2", Parse("6.5-beta2").String())
	require.Equal(t, "6.4.1", Version{Major: 6, Minor: 4, Patch: 1, HasPatch: true}.String())
	require.Equal(t, "6.4-RC1", Version{Major: 6, Minor: 4, Suffix: "RC1"}.String())
}

// TestParseStream normalizes names and rejects blanks.
func TestParseStream(t *testing.T) {
	t.Parallel()

	s, err := ParseStream(" Beta-RC-Point ")
	require.NoError(t, err)
	require.Equal(t, StreamBetaRCPoint, s)
	require.True(t, s.IsBetaRC())
	require.True(t, s.IsKnown())

	s, err = ParseStream("nightly")
	require.NoError(t, err)
	require.False(t, s.IsKnown())
	require.False(t, s.IsBetaRC())

	_, err = ParseStream("  ")
	require.ErrorIs(t, err, ErrEmptyStream)
}
