package release

// Marker is appended to synthesized versions so that they can be told apart
// from real ones in update-check requests.
const Marker = "-wp-beta-tester"

const (
	// correctedPatch is high enough that any real point release compares as
	// newer, so the update server always offers the point release.
	correctedPatch = 100
	// minorsPerMajor is the number of minor versions in a major line.
	minorsPerMajor = 10
)

// RequestVersion computes the version string to send in a core update check
// so that the update server answers for the selected stream.
//
// When preferred carries no current version the installed version is
// returned untouched. The function must be given the real installed version,
// never its own output.
func RequestVersion(installed Version, preferred *Preferred, sel Selection) string {
	if !preferred.HasCurrent() {
		return installed.String()
	}

	current := Parse(preferred.Current)

	baseline := current
	if sel.Stream.IsBetaRC() && current.Less(installed) {
		baseline = installed
	}

	if sel.Revert {
		baseline = correctForDowngrade(installed, baseline)
	}

	baseline = bump(baseline, sel.Stream)

	return baseline.Numeric() + Marker
}

// correctForDowngrade shifts the baseline so that a revert to an earlier
// stream still looks like a point release is available.
func correctForDowngrade(installed, candidate Version) Version {
	out := Version{
		Major:    candidate.Major,
		Minor:    candidate.Minor,
		Patch:    candidate.Patch,
		HasPatch: candidate.HasPatch,
	}

	if candidate.Compare(installed) >= 0 {
		out.Minor--
	}

	if (installed.IsStable() || installed.HasPatch) && out.Minor < installed.Minor {
		out.Minor = installed.Minor
	}

	out.Patch = correctedPatch
	out.HasPatch = true

	return out
}

// bump moves the baseline onto the next version of the selected stream.
func bump(v Version, stream Stream) Version {
	out := Version{
		Major:    v.Major,
		Minor:    v.Minor,
		Patch:    v.Patch,
		HasPatch: v.HasPatch,
	}

	switch stream {
	case StreamPoint, StreamBetaRCPoint:
		if out.HasPatch {
			out.Patch++
		} else {
			out.Patch = 1
			out.HasPatch = true
		}
	case StreamUnstable, StreamBetaRCUnstable:
		out.Minor++
		if out.Minor == minorsPerMajor {
			out.Major++
			out.Minor = 0
		}
	}

	return out
}

// IsConfiguredDowngrade reports whether the update currently on offer would
// take the install back to an earlier release. Pre-release suffixes are
// ignored, so a beta followed by an RC of the same release is not a downgrade.
func IsConfiguredDowngrade(installed, next string) bool {
	return Parse(next).Less(Parse(installed))
}
