package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestConfigure rejects unknown names and keeps the level for blanks.
func TestConfigure(t *testing.T) {
	require.NoError(t, Configure(""))
	require.Error(t, Configure("verbose"))

	require.NoError(t, Configure("debug"))
	require.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, Configure("info"))
	require.Equal(t, zapcore.InfoLevel, level.Level())
}

// TestWithLevel drops entries below the derived logger's minimum.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core, WithLevel(zapcore.WarnLevel)).Named("proxy")

	log.Info("ignored")
	log.With(zap.String("upstream", "api.wordpress.org")).Warn("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Message)
	require.Equal(t, "proxy", entries[0].LoggerName)
}

// TestStdLog returns a logger usable by net/http.
func TestStdLog(t *testing.T) {
	t.Parallel()

	require.NotNil(t, StdLog("proxy", zapcore.ErrorLevel))
}
