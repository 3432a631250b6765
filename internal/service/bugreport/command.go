package bugreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/render"
	"github.com/wpbt/beta-tester/internal/site"
)

// Output modes of the bug-report command.
const (
	OutputText     = "text"
	OutputHTML     = "html"
	OutputTerminal = "terminal"
)

var (
	errUnknownFormat = errors.New("unknown report format")
	errUnknownOutput = errors.New("unknown output mode")
)

// Options configures the bug-report command.
type Options struct {
	// ConfigPath to YAML settings file.
	ConfigPath string
	// Format selects one template; empty prints every target.
	Format string
	// Output is one of OutputText, OutputHTML or OutputTerminal.
	Output string
	// Request describes the browser and web server.
	Request Request
	// Out receives command output.
	Out io.Writer
}

// Run collects the environment and prints the bug report templates.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	collectorOptions := []Option{
		WithTheme(cfg.ActiveTheme),
		WithPlugins(cfg.ActivePlugins),
		WithPHPProbe(CommandPHPProbe(cfg.Timeout)),
	}

	if cfg.WordPressPath != "" {
		collectorOptions = append(collectorOptions, WithInstall(site.NewInstall(cfg.WordPressPath)))
	}

	if versions, versionErr := site.NewVersionSource(cfg.InstalledVersion, cfg.WordPressPath); versionErr == nil {
		collectorOptions = append(collectorOptions, WithVersions(versions))
	}

	reports, err := selectReports(Reports(NewCollector(collectorOptions...).Collect(ctx, opts.Request)), opts.Format)
	if err != nil {
		return err
	}

	for i, report := range reports {
		if i > 0 {
			if _, err = io.WriteString(opts.Out, "\n\n"); err != nil {
				return err
			}
		}

		if err = writeReport(opts.Out, report, opts.Output); err != nil {
			return err
		}
	}

	return nil
}

func selectReports(reports []Report, format string) ([]Report, error) {
	if format == "" {
		return reports, nil
	}

	for _, report := range reports {
		if string(report.Target.Format) == strings.ToLower(format) {
			return []Report{report}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
}

func writeReport(w io.Writer, report Report, output string) error {
	var (
		body string
		err  error
	)

	switch output {
	case "", OutputText:
		body = fmt.Sprintf("%s: %s\n\n%s\n", report.Target.Title, report.Target.URL, report.Body)
	case OutputHTML:
		body, err = report.Preview()
	case OutputTerminal:
		body, err = render.Terminal(
			fmt.Sprintf("## [%s](%s)\n\n%s\n\n%s", report.Target.Title, report.Target.URL, Introduction, report.Body), 0)
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, output)
	}

	if err != nil {
		return err
	}

	_, err = io.WriteString(w, body)

	return err
}
