package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithFields_AttachesKeyValues checks that scoped fields reach the output.
func TestWithFields_AttachesKeyValues(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "proxy")
	ctx = WithFields(ctx, "stream", "point", "revert", true)

	InfoKV(ctx, "Request rewritten", "version", "6.4.1-wp-beta-tester")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "proxy", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, "point", fields["stream"])
	require.Equal(t, true, fields["revert"])
	require.Equal(t, "6.4.1-wp-beta-tester", fields["version"])
}
