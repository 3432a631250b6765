package checker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
)

var errTestUnavailable = errors.New("server unavailable")

// countingChecker answers with a downgrade and counts calls.
type countingChecker struct {
	calls atomic.Int32
	err   error
}

func (c *countingChecker) CheckDowngrade(context.Context) (*release.DowngradeCheck, error) {
	c.calls.Add(1)

	if c.err != nil {
		return nil, c.err
	}

	return release.NewDowngradeCheck("6.5-RC1", "6.4.3"), nil
}

// TestPoll checks immediately and on every tick until canceled.
func TestPoll(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		checker := new(countingChecker)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error)

		go func() {
			done <- Poll(ctx, checker, time.Minute)
		}()

		time.Sleep(2*time.Minute + time.Second)
		synctest.Wait()

		require.Equal(t, int32(3), checker.calls.Load())

		cancel()
		require.NoError(t, <-done)
	})
}

// TestCheckOnce logs downgrades at warn level.
func TestCheckOnce(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	require.NoError(t, checkOnce(ctx, new(countingChecker)))
	require.Equal(t, 1, logs.FilterMessageSnippet("downgrades the install").Len())

	err := checkOnce(ctx, &countingChecker{err: errTestUnavailable})
	require.ErrorIs(t, err, errTestUnavailable)
}
