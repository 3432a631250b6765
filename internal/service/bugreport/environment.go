package bugreport

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/site"
)

// NoneActivated is reported for empty plugin lists.
const NoneActivated = "None activated"

// defaultProbeTimeout bounds the PHP version probe.
const defaultProbeTimeout = 5 * time.Second

// serverExecutables maps web-server process names to SERVER_SOFTWARE-like
// strings understood by Server.
//
//nolint:gochecknoglobals // Read-only lookup table.
var serverExecutables = map[string]string{
	"nginx":      "nginx",
	"apache2":    "Apache",
	"httpd":      "Apache",
	"lshttpd":    "LiteSpeed",
	"litespeed":  "LiteSpeed",
	"w3wp":       "Microsoft-IIS",
	"iisexpress": "Microsoft-IIS",
}

// Request describes the browser and server a report is written for.
type Request struct {
	// UserAgent is the browser's User-Agent header.
	UserAgent string
	// MobileHint is the Sec-CH-UA-Mobile client hint.
	MobileHint bool
	// ServerSoftware is the web server's SERVER_SOFTWARE value; when empty
	// the running processes are searched for a known web server.
	ServerSoftware string
}

// Environment is what goes into the Environment section of a report.
type Environment struct {
	OS        string
	Server    string
	PHP       string
	WordPress string
	Browser   string
	Theme     string
	// MUPlugins and Plugins hold "Name Version" labels in natural order.
	MUPlugins []string
	Plugins   []string
}

// ProcessLister lists running processes.
type ProcessLister func() ([]ps.Process, error)

// PHPProbe returns the PHP version of the host.
type PHPProbe func(ctx context.Context) (string, error)

// Collector gathers the Environment of an install.
type Collector struct {
	install   *site.Install
	versions  site.VersionSource
	theme     string
	plugins   []string
	php       PHPProbe
	processes ProcessLister
	goos      string
}

// Option configures a Collector.
type Option func(*Collector)

// WithInstall reads theme and plugin headers from the install.
func WithInstall(install *site.Install) Option {
	return func(c *Collector) {
		c.install = install
	}
}

// WithVersions sets where the WordPress version comes from.
func WithVersions(versions site.VersionSource) Option {
	return func(c *Collector) {
		c.versions = versions
	}
}

// WithTheme sets the active theme directory.
func WithTheme(slug string) Option {
	return func(c *Collector) {
		c.theme = slug
	}
}

// WithPlugins sets the active plugin files.
func WithPlugins(files []string) Option {
	return func(c *Collector) {
		c.plugins = files
	}
}

// WithPHPProbe replaces the PHP version probe.
func WithPHPProbe(probe PHPProbe) Option {
	return func(c *Collector) {
		if probe != nil {
			c.php = probe
		}
	}
}

// WithProcessLister replaces the process listing used to find the web server.
func WithProcessLister(lister ProcessLister) Option {
	return func(c *Collector) {
		if lister != nil {
			c.processes = lister
		}
	}
}

// WithGOOS overrides the operating system reported next to the server.
func WithGOOS(goos string) Option {
	return func(c *Collector) {
		if goos != "" {
			c.goos = goos
		}
	}
}

// NewCollector creates a Collector probing the local host by default.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		php:       CommandPHPProbe(defaultProbeTimeout),
		processes: ps.Processes,
		goos:      runtime.GOOS,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect gathers the environment. It never fails: anything that cannot be
// found is reported as Unknown.
func (c *Collector) Collect(ctx context.Context, req Request) *Environment {
	ctx = logger.WithName(ctx, "bug-report")

	return &Environment{
		OS:        OS(req.UserAgent),
		Server:    Server(c.serverSoftware(ctx, req.ServerSoftware), c.goos),
		PHP:       c.phpVersion(ctx),
		WordPress: c.wordPressVersion(ctx),
		Browser:   Browser(req.UserAgent, req.MobileHint),
		Theme:     c.activeTheme(ctx),
		MUPlugins: c.muPlugins(ctx),
		Plugins:   c.activePlugins(ctx),
	}
}

func (c *Collector) serverSoftware(ctx context.Context, software string) string {
	if software != "" || c.processes == nil {
		return software
	}

	processes, err := c.processes()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)

		return ""
	}

	for _, process := range processes {
		name := strings.TrimSuffix(strings.ToLower(process.Executable()), ".exe")
		if found, ok := serverExecutables[name]; ok {
			return found
		}
	}

	return ""
}

func (c *Collector) phpVersion(ctx context.Context) string {
	if c.php == nil {
		return Unknown
	}

	v, err := c.php(ctx)
	if err != nil || v == "" {
		logger.DebugKV(ctx, "Unable to determine PHP version", "error", err)

		return Unknown
	}

	return v
}

func (c *Collector) wordPressVersion(ctx context.Context) string {
	if c.versions == nil {
		return Unknown
	}

	v, err := c.versions.InstalledVersion(ctx)
	if err != nil || v == "" {
		return Unknown
	}

	return v
}

func (c *Collector) activeTheme(ctx context.Context) string {
	if c.install == nil || c.theme == "" {
		return Unknown
	}

	theme, err := c.install.Theme(c.theme)
	if err != nil {
		logger.DebugKV(ctx, "Unable to read theme", "theme", c.theme, "error", err)

		return Unknown
	}

	return theme.Label()
}

func (c *Collector) muPlugins(ctx context.Context) []string {
	if c.install == nil {
		return nil
	}

	components, err := c.install.MUPlugins()
	if err != nil {
		logger.DebugKV(ctx, "Unable to read mu-plugins", "error", err)

		return nil
	}

	return labels(components)
}

func (c *Collector) activePlugins(ctx context.Context) []string {
	if c.install == nil || len(c.plugins) == 0 {
		return nil
	}

	components, err := c.install.Plugins(uniqueStrings(c.plugins))
	if err != nil {
		logger.DebugKV(ctx, "Unable to read plugins", "error", err)

		return nil
	}

	return labels(components)
}

// labels returns "Name Version" labels in natural, case-insensitive order.
func labels(components []site.Component) []string {
	if len(components) == 0 {
		return nil
	}

	result := make([]string, 0, len(components))
	for _, component := range components {
		result = append(result, component.Label())
	}

	collate.New(language.Und, collate.IgnoreCase, collate.Numeric).SortStrings(result)

	return result
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}

// CommandPHPProbe runs the php binary to read PHP_VERSION.
func CommandPHPProbe(timeout time.Duration) PHPProbe {
	return func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, "php", "-r", "echo PHP_VERSION;").Output()
		if err != nil {
			return "", fmt.Errorf("run php: %w", err)
		}

		return strings.TrimSpace(string(out)), nil
	}
}
