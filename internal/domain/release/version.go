package release

import (
	"regexp"
	"strconv"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// preReleasePattern matches the suffixes WordPress uses for unfinished builds.
var preReleasePattern = regexp.MustCompile(`alpha|beta|RC`)

// Version is a parsed WordPress version string.
type Version struct {
	// Major is the first dot-separated component.
	Major int
	// Minor is the second dot-separated component.
	Minor int
	// Patch is the third component; only meaningful when HasPatch is set.
	Patch int
	// HasPatch tells whether the string carried a third component.
	HasPatch bool
	// Suffix is everything after the first hyphen, e.g. "beta2".
	Suffix string
	// Raw is the string the version was parsed from.
	Raw string
}

// Parse splits a version string such as "6.4.1" or "6.5-beta2" into its
// components. It never fails: components that are not numbers become 0.
func Parse(raw string) Version {
	v := Version{Raw: raw}

	numeric := raw
	if idx := strings.Index(raw, "-"); idx >= 0 {
		numeric = raw[:idx]
		v.Suffix = raw[idx+1:]
	}

	parts := strings.Split(numeric, ".")

	v.Major = leadingInt(parts[0])
	if len(parts) > 1 {
		v.Minor = leadingInt(parts[1])
	}

	if len(parts) > 2 {
		v.Patch = leadingInt(parts[2])
		v.HasPatch = true
	}

	return v
}

// IsStable reports whether the version is a finished release.
func (v Version) IsStable() bool {
	return !preReleasePattern.MatchString(v.String())
}

// Milestone returns the version without its pre-release suffix, e.g. "6.5"
// for "6.5-beta2".
func (v Version) Milestone() string {
	if v.Raw != "" {
		milestone, _, _ := strings.Cut(v.Raw, "-")
		return milestone
	}

	return v.Numeric()
}

// Numeric renders major.minor and the patch when present.
func (v Version) Numeric() string {
	out := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	if v.HasPatch {
		out += "." + strconv.Itoa(v.Patch)
	}

	return out
}

// String returns the original string when known, otherwise the numeric form
// followed by the suffix.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}

	if v.Suffix == "" {
		return v.Numeric()
	}

	return v.Numeric() + "-" + v.Suffix
}

// Compare orders versions by (major, minor, patch-or-0). The suffix does not
// take part in the ordering.
func (v Version) Compare(other Version) int {
	return v.triple().Compare(other.triple())
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// triple converts the numeric part into a semver value. Negative components
// can appear after the downgrade correction and are clamped for ordering.
func (v Version) triple() *semver.Version {
	return semver.New(clampUint(v.Major), clampUint(v.Minor), clampUint(v.Patch), "", "")
}

func clampUint(n int) uint64 {
	if n < 0 {
		return 0
	}

	return uint64(n)
}

// leadingInt mimics loose integer casting: leading digits are used and
// anything else yields 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return n
}
