package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/service/common"
)

// Options controls the checker polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between downgrade checks.
	PollInterval time.Duration
}

// DefaultPollInterval is the interval between downgrade checks.
const DefaultPollInterval = time.Hour

// DowngradeChecker is the part of the client the checker polls.
type DowngradeChecker interface {
	CheckDowngrade(ctx context.Context) (*release.DowngradeCheck, error)
}

// Run periodically asks wpbt-server whether the configured stream would
// downgrade the install and logs a warning when it does.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "wpbt-watch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}
	if actor, detectErr := common.DetectActor(); detectErr == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching for downgrades", "server_address", serverAddress, "interval", opts.PollInterval.String())

	return Poll(ctx, client, opts.PollInterval)
}

// Poll checks immediately and then on every tick until ctx is canceled.
func Poll(ctx context.Context, checker DowngradeChecker, interval time.Duration) error {
	if err := checkOnce(ctx, checker); err != nil {
		logger.ErrorKV(ctx, "Downgrade check failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err := checkOnce(ctx, checker); err != nil {
				logger.ErrorKV(ctx, "Downgrade check failed", "error", err)
			}
		}
	}
}

// checkOnce runs one check and logs the outcome.
func checkOnce(ctx context.Context, checker DowngradeChecker) error {
	check, err := checker.CheckDowngrade(ctx)
	if err != nil {
		return err
	}

	if check.IsDowngrade {
		logger.WarnKV(ctx, "Configured stream downgrades the install, please reconfigure it",
			"installed", check.Installed,
			"offered", check.Next)

		return nil
	}

	logger.InfoKV(ctx, "No downgrade on offer", "installed", check.Installed, "offered", check.Next)

	return nil
}
