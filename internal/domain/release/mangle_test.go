package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRequestVersion_NoPreferred returns the installed version without the marker.
func TestRequestVersion_NoPreferred(t *testing.T) {
	t.Parallel()

	for _, installed := range []string{"6.4", "6.5-beta2", "6.4.3"} {
		sel := Selection{Stream: StreamUnstable, Revert: true}

		require.Equal(t, installed, RequestVersion(Parse(installed), nil, sel))
		require.Equal(t, installed, RequestVersion(Parse(installed), &Preferred{Response: "latest"}, sel))
	}
}

// TestRequestVersion_Streams covers the channel bump of every stream.
func TestRequestVersion_Streams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		installed string
		current   string
		stream    Stream
		want      string
	}{
		{"point without patch", "6.3", "6.3", StreamPoint, "6.3.1" + Marker},
		{"point with patch", "6.3.1", "6.3.2", StreamPoint, "6.3.3" + Marker},
		{"unstable", "6.3", "6.3", StreamUnstable, "6.4" + Marker},
		{"unstable rollover", "6.9", "6.9.0", StreamUnstable, "7.0.0" + Marker},
		{"beta-rc keeps baseline", "6.4", "6.4.1", StreamBetaRC, "6.4.1" + Marker},
		{"beta-rc uses installed when ahead", "6.5-beta1", "6.4.2", StreamBetaRCPoint, "6.5.1" + Marker},
		{"beta-rc unstable from installed", "6.5-beta1", "6.4.2", StreamBetaRCUnstable, "6.6" + Marker},
		{"point ignores installed ahead", "6.5-beta1", "6.4.2", StreamPoint, "6.4.3" + Marker},
		{"free-form stream", "6.4", "6.4", Stream("custom"), "6.4" + Marker},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := RequestVersion(Parse(tc.installed), &Preferred{Current: tc.current}, Selection{Stream: tc.stream})
			require.Equal(t, tc.want, got)
		})
	}
}

// TestRequestVersion_Revert exercises the downgrade correction followed by the bump.
func TestRequestVersion_Revert(t *testing.T) {
	t.Parallel()

	sel := Selection{Stream: StreamPoint, Revert: true}

	// Pre-release install: minor goes one behind, patch 100 then 101.
	got := RequestVersion(Parse("6.4-beta2"), &Preferred{Current: "6.4"}, sel)
	require.Equal(t, "6.3.101"+Marker, got)

	// Stable install with a patch: minor is held at the installed minor.
	got = RequestVersion(Parse("6.4.1"), &Preferred{Current: "6.4.1"}, sel)
	require.Equal(t, "6.4.101"+Marker, got)

	// Baseline already behind the install: no decrement.
	got = RequestVersion(Parse("6.5-beta1"), &Preferred{Current: "6.3.2"}, sel)
	require.Equal(t, "6.3.101"+Marker, got)

	// Unstable stream after correction keeps patch 100.
	got = RequestVersion(Parse("6.4-RC1"), &Preferred{Current: "6.4"}, Selection{Stream: StreamUnstable, Revert: true})
	require.Equal(t, "6.4.100"+Marker, got)
}

// TestCorrectForDowngrade checks the literal correction rules.
func TestCorrectForDowngrade(t *testing.T) {
	t.Parallel()

	out := correctForDowngrade(Parse("6.4"), Parse("6.4"))
	require.Equal(t, 6, out.Major)
	require.Equal(t, 4, out.Minor)
	require.Equal(t, 100, out.Patch)

	out = correctForDowngrade(Parse("6.4-beta1"), Parse("6.5"))
	require.Equal(t, 4, out.Minor)

	// The correction does not guard against a negative minor on pre-releases.
	out = correctForDowngrade(Parse("7.0-beta1"), Parse("7.0"))
	require.Equal(t, -1, out.Minor)
}

// TestIsConfiguredDowngrade checks warning decisions.
func TestIsConfiguredDowngrade(t *testing.T) {
	t.Parallel()

	require.True(t, IsConfiguredDowngrade("6.4", "6.3"))
	require.False(t, IsConfiguredDowngrade("6.4", "6.4"))
	require.False(t, IsConfiguredDowngrade("6.4-beta1", "6.4-RC2"))
	require.False(t, IsConfiguredDowngrade("6.4", "6.5-beta1"))
	require.True(t, IsConfiguredDowngrade("7.0-alpha-1", "6.9.1"))
	require.False(t, IsConfiguredDowngrade("", "garbage"))
}

// TestNewDowngradeCheck treats a missing offer as no downgrade.
func TestNewDowngradeCheck(t *testing.T) {
	t.Parallel()

	require.True(t, NewDowngradeCheck("6.5-RC1", "6.4.3").IsDowngrade)
	require.False(t, NewDowngradeCheck("6.5-RC1", "6.5-RC2").IsDowngrade)
	require.False(t, NewDowngradeCheck("6.5-RC1", "").IsDowngrade)
}
