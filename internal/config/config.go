package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by wpbt-server and the wpbt CLI.
type Config struct {
	// ServerAddress is the gRPC admin API address.
	ServerAddress string `yaml:"server_addr"`
	// ProxyAddress is where the update-check reverse proxy listens.
	ProxyAddress string `yaml:"proxy_addr"`
	// UpdateAPI is the base URL of the WordPress.org API the proxy forwards to.
	UpdateAPI string `yaml:"update_api"`
	// SiteURL is the public URL of the WordPress site, used for admin links.
	SiteURL string `yaml:"site_url"`
	// Multisite switches admin links to the network admin.
	Multisite bool `yaml:"multisite"`
	// WordPressPath is the root of the WordPress install on disk.
	WordPressPath string `yaml:"wordpress_path"`
	// InstalledVersion overrides the version read from the install.
	InstalledVersion string `yaml:"installed_version"`
	// ActiveTheme is the directory name of the active theme, for bug reports.
	ActiveTheme string `yaml:"active_theme"`
	// ActivePlugins lists active plugin files relative to wp-content/plugins, for bug reports.
	ActivePlugins []string `yaml:"active_plugins"`
	// Locale is sent with version checks.
	Locale string `yaml:"locale"`
	// SettingsFile is the YAML file backing the option store.
	SettingsFile string `yaml:"settings_file"`
	// CacheFile is the YAML file caching the last version-check response.
	CacheFile string `yaml:"cache_file"`
	// CacheTTL is how long a version-check response is trusted.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// FeedURL is the development news feed shown on the dashboard.
	FeedURL string `yaml:"feed_url"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for service settings.
	DefaultConfigFilename = "wpbt.yaml"

	// DefaultEnvFilename is read, when present, before environment overrides apply.
	DefaultEnvFilename = ".env"

	// DefaultSettingsFilename is the default option store file.
	DefaultSettingsFilename = "wpbt-settings.yaml"

	// DefaultCacheFilename is the default version-check cache file.
	DefaultCacheFilename = "wpbt-update-core.yaml"

	// DefaultServerAddress is the default gRPC admin API address.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultProxyAddress is the default reverse proxy address.
	DefaultProxyAddress = "127.0.0.1:8088"

	// DefaultUpdateAPI is the WordPress.org API base URL.
	DefaultUpdateAPI = "https://api.wordpress.org"

	// DefaultFeedURL is the WordPress development news feed.
	DefaultFeedURL = "https://wordpress.org/news/category/development/feed/"

	// DefaultLocale is sent with version checks when none is configured.
	DefaultLocale = "en_US"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultCacheTTL matches the twelve hours core waits between checks.
	DefaultCacheTTL = 12 * time.Hour

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// envPrefix prefixes every environment override.
	envPrefix = "WPBT_"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errAbsoluteURLRequired is returned for relative or schemeless URLs.
	errAbsoluteURLRequired = errors.New("absolute http(s) URL required")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		ServerAddress: DefaultServerAddress,
	}

	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path, applies .env and WPBT_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), DefaultEnvFilename)); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting
// and fills in defaults for optional ones.
func Validate(settings *Config) error {
	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	applyDefaults(settings)

	if _, err := net.ResolveTCPAddr("tcp", settings.ProxyAddress); err != nil {
		return fmt.Errorf("invalid proxy socket: %w", err)
	}

	if err := validateURL(settings.UpdateAPI); err != nil {
		return fmt.Errorf("invalid update API URL: %w", err)
	}

	if err := validateURL(settings.FeedURL); err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}

	if settings.SiteURL == "" {
		return nil
	}

	if err := validateURL(settings.SiteURL); err != nil {
		return fmt.Errorf("invalid site URL: %w", err)
	}

	return nil
}

// applyDefaults fills every optional field that is still empty.
func applyDefaults(settings *Config) {
	if settings.ProxyAddress == "" {
		settings.ProxyAddress = DefaultProxyAddress
	}

	if settings.UpdateAPI == "" {
		settings.UpdateAPI = DefaultUpdateAPI
	}

	if settings.FeedURL == "" {
		settings.FeedURL = DefaultFeedURL
	}

	if settings.Locale == "" {
		settings.Locale = DefaultLocale
	}

	if settings.SettingsFile == "" {
		settings.SettingsFile = DefaultSettingsFilename
	}

	if settings.CacheFile == "" {
		settings.CacheFile = DefaultCacheFilename
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.CacheTTL <= 0 {
		settings.CacheTTL = DefaultCacheTTL
	}
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q: %w", raw, errAbsoluteURLRequired)
	}

	return nil
}

// loadEnvFile exports variables from a .env file next to the config. Variables
// already present in the environment win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("stat env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	return nil
}

// applyEnv overrides fields from WPBT_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	textFields := map[string]*string{
		"SERVER_ADDR":       &cfg.ServerAddress,
		"PROXY_ADDR":        &cfg.ProxyAddress,
		"UPDATE_API":        &cfg.UpdateAPI,
		"SITE_URL":          &cfg.SiteURL,
		"WORDPRESS_PATH":    &cfg.WordPressPath,
		"INSTALLED_VERSION": &cfg.InstalledVersion,
		"LOCALE":            &cfg.Locale,
		"ACTIVE_THEME":      &cfg.ActiveTheme,
		"SETTINGS_FILE":     &cfg.SettingsFile,
		"CACHE_FILE":        &cfg.CacheFile,
		"FEED_URL":          &cfg.FeedURL,
		"LOG_LEVEL":         &cfg.LogLevel,
	}

	for name, field := range textFields {
		if value, ok := lookup(envPrefix + name); ok {
			*field = value
		}
	}

	if value, ok := lookup(envPrefix + "MULTISITE"); ok {
		multisite, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse %sMULTISITE: %w", envPrefix, err)
		}

		cfg.Multisite = multisite
	}

	durations := map[string]*time.Duration{
		"TIMEOUT":   &cfg.Timeout,
		"CACHE_TTL": &cfg.CacheTTL,
	}

	for name, field := range durations {
		value, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}

		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
		}

		*field = duration
	}

	return nil
}
