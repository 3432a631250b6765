package release

import (
	"errors"
	"fmt"
	"strings"
)

// Channels understood by the version-check API.
const (
	// ChannelBranchDevelopment tracks the development of the current branch.
	ChannelBranchDevelopment = "branch-development"
	// ChannelDevelopment tracks trunk.
	ChannelDevelopment = "development"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the record kept by the option store.
type Settings struct {
	// Stream is the release cadence to follow.
	Stream Stream `yaml:"stream"`
	// Revert enables the downgrade correction.
	Revert bool `yaml:"revert"`
	// Channel is sent as the channel query parameter of version checks.
	Channel string `yaml:"channel"`
	// StreamOption, when set, replaces Channel in version checks, e.g. "beta" or "rc".
	StreamOption string `yaml:"stream-option"`
}

// DefaultSettings is used when the option store is empty.
func DefaultSettings() Settings {
	sel := DefaultSelection()

	return Settings{
		Stream:  sel.Stream,
		Revert:  sel.Revert,
		Channel: ChannelBranchDevelopment,
	}
}

// Selection returns the part of the settings the mangler works with.
func (s Settings) Selection() Selection {
	return Selection{
		Stream: s.Stream,
		Revert: s.Revert,
	}
}

// RequestChannel returns the channel to put on version-check requests.
func (s Settings) RequestChannel() string {
	if option := strings.TrimSpace(s.StreamOption); option != "" {
		return option
	}

	return strings.TrimSpace(s.Channel)
}

// Normalize trims values, fills the default channel and validates the stream.
func (s *Settings) Normalize() error {
	stream, err := ParseStream(string(s.Stream))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	s.Stream = stream
	s.Channel = strings.TrimSpace(s.Channel)
	s.StreamOption = strings.ToLower(strings.TrimSpace(s.StreamOption))

	if s.Channel == "" {
		s.Channel = ChannelBranchDevelopment
	}

	return nil
}
