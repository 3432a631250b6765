package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/site"
)

// Options configures the dashboard command.
type Options struct {
	// ConfigPath to YAML settings file.
	ConfigPath string
	// HTML prints the admin widget markup instead of terminal output.
	HTML bool
	// Width is the terminal word-wrap width.
	Width int
	// Out receives command output.
	Out io.Writer
}

// Run builds the dashboard for the configured install and prints it.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	versions, err := site.NewVersionSource(cfg.InstalledVersion, cfg.WordPressPath)
	if err != nil {
		return err
	}

	links := site.Links{SiteURL: cfg.SiteURL, Multisite: cfg.Multisite}
	feed := NewFeed(&http.Client{Timeout: cfg.Timeout}, cfg.FeedURL)

	widget, err := New(versions, links, feed).Build(ctx)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	var out string
	if opts.HTML {
		out, err = widget.HTML()
	} else {
		out, err = widget.Terminal(opts.Width)
	}

	if err != nil {
		return err
	}

	_, err = io.WriteString(opts.Out, out)

	return err
}
