package release

import (
	"errors"
	"fmt"
	"strings"
)

// Stream names the release cadence an operator wants to follow.
type Stream string

// Known streams. Any other non-empty value is accepted as a free-form
// override that leaves the baseline untouched.
const (
	// StreamPoint follows point releases of the current branch.
	StreamPoint Stream = "point"
	// StreamUnstable follows the next minor development line.
	StreamUnstable Stream = "unstable"
	// StreamBetaRCPoint follows betas and release candidates of the point line.
	StreamBetaRCPoint Stream = "beta-rc-point"
	// StreamBetaRCUnstable follows betas and release candidates of the next minor line.
	StreamBetaRCUnstable Stream = "beta-rc-unstable"
	// StreamBetaRC uses whatever the pre-release channel offers.
	StreamBetaRC Stream = "beta-rc"
)

// betaRCPrefix marks streams that may keep an install that is ahead of the
// preferred offer as its baseline.
const betaRCPrefix = "beta-rc"

// ErrEmptyStream is returned when a stream is blank.
var ErrEmptyStream = errors.New("stream must be provided")

// KnownStreams lists the streams offered on the settings screen.
func KnownStreams() []Stream {
	return []Stream{StreamPoint, StreamUnstable, StreamBetaRCPoint, StreamBetaRCUnstable, StreamBetaRC}
}

// ParseStream normalizes a stream name.
func ParseStream(s string) (Stream, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyStream
	}

	return Stream(s), nil
}

// IsBetaRC reports whether the stream belongs to the beta/RC family.
func (s Stream) IsBetaRC() bool {
	return strings.HasPrefix(string(s), betaRCPrefix)
}

// IsKnown reports whether the stream is one of KnownStreams.
func (s Stream) IsKnown() bool {
	for _, known := range KnownStreams() {
		if s == known {
			return true
		}
	}

	return false
}

// Selection is the operator's channel choice as persisted by the option store.
type Selection struct {
	// Stream is the release cadence to follow.
	Stream Stream
	// Revert keeps the synthesized version from landing on the installed
	// release so that going back to an earlier stream is still offered.
	Revert bool
}

// DefaultSelection is used when nothing has been stored yet.
func DefaultSelection() Selection {
	return Selection{
		Stream: StreamPoint,
		Revert: true,
	}
}

// String renders the selection for logs.
func (s Selection) String() string {
	return fmt.Sprintf("%s (revert: %t)", s.Stream, s.Revert)
}

// Preferred is one offer returned by the core version-check API. Only
// Current takes part in the version arithmetic.
type Preferred struct {
	// Response is the offer kind: "upgrade", "latest", "development" or "autoupdate".
	Response string `json:"response" yaml:"response"`
	// Download is the package URL of the offer.
	Download string `json:"download" yaml:"download"`
	// Locale is the language of the offered build.
	Locale string `json:"locale" yaml:"locale"`
	// Current is the version the update server considers current.
	Current string `json:"current" yaml:"current"`
	// Version is the version that would be installed.
	Version string `json:"version" yaml:"version"`
	// PHPVersion is the minimum PHP version of the offer.
	PHPVersion string `json:"php_version" yaml:"php_version"`
	// MySQLVersion is the minimum MySQL version of the offer.
	MySQLVersion string `json:"mysql_version" yaml:"mysql_version"`
	// NewBundled is the newest bundled theme version.
	NewBundled string `json:"new_bundled" yaml:"new_bundled"`
}

// HasCurrent reports whether the offer can be used as a baseline.
func (p *Preferred) HasCurrent() bool {
	return p != nil && strings.TrimSpace(p.Current) != ""
}
