package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	// headerReadLimit is how much of a file is scanned for headers.
	headerReadLimit = 8 * 1024

	versionFile   = "wp-includes/version.php"
	pluginsDir    = "wp-content/plugins"
	muPluginsDir  = "wp-content/mu-plugins"
	themesDir     = "wp-content/themes"
	themeStyleCSS = "style.css"
)

var (
	// ErrVersionNotFound is returned when version.php has no $wp_version.
	ErrVersionNotFound = errors.New("wp_version not found")
	// errNoVersionSource is returned when neither a path nor a version is configured.
	errNoVersionSource = errors.New("installed version unknown: set installed_version or wordpress_path")

	wpVersionPattern = regexp.MustCompile(`\$wp_version\s*=\s*['"]([^'"]+)['"]`)
)

// VersionSource returns the installed WordPress version.
type VersionSource interface {
	InstalledVersion(ctx context.Context) (string, error)
}

// StaticVersion is a VersionSource with a fixed answer.
type StaticVersion string

// InstalledVersion returns the fixed version.
func (s StaticVersion) InstalledVersion(context.Context) (string, error) {
	return string(s), nil
}

// NewVersionSource prefers an explicit version and falls back to the install on disk.
func NewVersionSource(installedVersion, wordpressPath string) (VersionSource, error) {
	if v := strings.TrimSpace(installedVersion); v != "" {
		return StaticVersion(v), nil
	}

	if strings.TrimSpace(wordpressPath) == "" {
		return nil, errNoVersionSource
	}

	return NewInstall(wordpressPath), nil
}

// Install is a WordPress installation on disk.
type Install struct {
	// Root is the directory holding wp-includes and wp-content.
	Root string
}

// NewInstall returns an Install rooted at path.
func NewInstall(path string) *Install {
	return &Install{Root: filepath.Clean(path)}
}

// InstalledVersion reads $wp_version from wp-includes/version.php.
func (i *Install) InstalledVersion(_ context.Context) (string, error) {
	contents, err := os.ReadFile(filepath.Join(i.Root, versionFile))
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}

	match := wpVersionPattern.FindSubmatch(contents)
	if match == nil {
		return "", ErrVersionNotFound
	}

	return string(match[1]), nil
}

// Component is a plugin or theme with its header data.
type Component struct {
	// File is the path relative to its parent directory, e.g. "akismet/akismet.php".
	File string
	// Name is the "Plugin Name" or "Theme Name" header.
	Name string
	// Version is the "Version" header.
	Version string
}

// Label renders "Name Version".
func (c Component) Label() string {
	return strings.TrimSpace(c.Name + " " + c.Version)
}

// Plugins reads the headers of the given active plugin files.
func (i *Install) Plugins(files []string) ([]Component, error) {
	result := make([]Component, 0, len(files))

	for _, file := range files {
		headers, err := readHeaders(filepath.Join(i.Root, pluginsDir, filepath.FromSlash(file)), "Plugin Name", "Version")
		if err != nil {
			return nil, err
		}

		result = append(result, Component{
			File:    file,
			Name:    headers["Plugin Name"],
			Version: headers["Version"],
		})
	}

	return result, nil
}

// MUPlugins reads the must-use plugins. Files without a name header are
// listed by file name.
func (i *Install) MUPlugins() ([]Component, error) {
	dir := filepath.Join(i.Root, muPluginsDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read mu-plugins: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".php" {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	result := make([]Component, 0, len(names))

	for _, name := range names {
		headers, err := readHeaders(filepath.Join(dir, name), "Plugin Name", "Version")
		if err != nil {
			return nil, err
		}

		component := Component{
			File:    name,
			Name:    headers["Plugin Name"],
			Version: headers["Version"],
		}

		if component.Name == "" {
			component.Name = name
		}

		result = append(result, component)
	}

	return result, nil
}

// Theme reads the style.css headers of the theme in the given directory.
func (i *Install) Theme(slug string) (*Component, error) {
	headers, err := readHeaders(filepath.Join(i.Root, themesDir, slug, themeStyleCSS), "Theme Name", "Version")
	if err != nil {
		return nil, err
	}

	if headers["Theme Name"] == "" {
		return nil, fmt.Errorf("theme %s: %w", slug, os.ErrNotExist)
	}

	return &Component{
		File:    slug,
		Name:    headers["Theme Name"],
		Version: headers["Version"],
	}, nil
}

// readHeaders extracts "Key: value" comment headers from the start of a file.
func readHeaders(path string, keys ...string) (map[string]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	head, err := io.ReadAll(io.LimitReader(f, headerReadLimit))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(head), "\r", "\n")
	headers := make(map[string]string, len(keys))

	for _, key := range keys {
		pattern := regexp.MustCompile(`(?mi)^(?:[ \t]*<\?php)?[ \t/*#@]*` + regexp.QuoteMeta(key) + `:(.*)$`)

		if match := pattern.FindStringSubmatch(text); match != nil {
			headers[key] = cleanHeader(match[1])
		}
	}

	return headers, nil
}

// cleanHeader strips a trailing comment terminator and whitespace.
func cleanHeader(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, "*/")
	value = strings.TrimSuffix(value, "?>")

	return strings.TrimSpace(value)
}
