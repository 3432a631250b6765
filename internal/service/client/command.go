package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/service/common"
)

// Options configures how the CLI reaches wpbt-server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives command output.
	Out io.Writer
}

// ErrDowngrade is returned by CheckDowngrade when the configured stream
// would take the install back to an earlier release.
var ErrDowngrade = errors.New("configured stream downgrades the install")

// ShowSettings prints the stored settings as YAML.
func ShowSettings(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client) error {
		settings, err := client.GetSettings(ctx)
		if err != nil {
			return err
		}

		return printSettings(opts.Out, settings)
	})
}

// UpdateSettings applies patch and prints the stored result.
func UpdateSettings(ctx context.Context, opts *Options, patch common.SettingsPatch) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client) error {
		settings, err := client.UpdateSettings(ctx, patch)
		if err != nil {
			return err
		}

		logger.InfoKV(ctx, "Settings updated", "stream", settings.Stream, "revert", settings.Revert)

		return printSettings(opts.Out, settings)
	})
}

// ShowRequestVersion prints the version sent in update checks.
func ShowRequestVersion(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client) error {
		v, err := client.RequestVersion(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(opts.Out, v)

		return err
	})
}

// CheckDowngrade prints the installed and offered versions. It fails with
// ErrDowngrade after printing the warning when the offer is a downgrade.
// With asHTML the warning is printed as the admin notice markup.
func CheckDowngrade(ctx context.Context, opts *Options, asHTML bool) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client) error {
		check, err := client.CheckDowngrade(ctx)
		if err != nil {
			return err
		}

		return printDowngrade(opts.Out, check, asHTML)
	})
}

// withClient loads configuration, connects and runs fn.
func withClient(ctx context.Context, opts *Options, fn func(context.Context, *common.Client) error) error {
	ctx = logger.WithName(ctx, "wpbt")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// The actor only feeds the server's audit log.
	if actor, detectErr := common.DetectActor(); detectErr == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	} else {
		logger.DebugKV(ctx, "Unable to detect actor", "error", detectErr)
	}

	client, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to wpbt-server", "server_address", serverAddress)

	return fn(ctx, client)
}

func printSettings(w io.Writer, settings release.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = w.Write(data)

	return err
}

func printDowngrade(w io.Writer, check *release.DowngradeCheck, asHTML bool) error {
	next := check.Next
	if next == "" {
		next = "<none>"
	}

	if _, err := fmt.Fprintf(w, "installed: %s\noffered:   %s\n", check.Installed, next); err != nil {
		return err
	}

	if !check.IsDowngrade {
		return nil
	}

	notice := "Warning: your current WordPress Beta Tester configuration will downgrade your install " +
		"to a previous version - please reconfigure it."
	if asHTML {
		notice = check.Notice
	}

	if _, err := fmt.Fprintln(w, notice); err != nil {
		return err
	}

	return ErrDowngrade
}
