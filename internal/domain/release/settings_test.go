package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSettings_RequestChannel prefers the stream option over the channel.
func TestSettings_RequestChannel(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	require.Equal(t, ChannelBranchDevelopment, s.RequestChannel())

	s.StreamOption = "rc"
	require.Equal(t, "rc", s.RequestChannel())
}

// TestSettings_Normalize fills defaults and rejects a blank stream.
func TestSettings_Normalize(t *testing.T) {
	t.Parallel()

	s := Settings{Stream: " Unstable ", StreamOption: " Beta "}
	require.NoError(t, s.Normalize())
	require.Equal(t, StreamUnstable, s.Stream)
	require.Equal(t, ChannelBranchDevelopment, s.Channel)
	require.Equal(t, "beta", s.StreamOption)
	require.Equal(t, Selection{Stream: StreamUnstable}, s.Selection())

	s = Settings{}
	require.ErrorIs(t, s.Normalize(), ErrInvalidSettings)
}
