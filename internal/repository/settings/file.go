package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
)

// Repository defines persistence operations for the beta tester settings.
type Repository interface {
	Load(ctx context.Context) (*release.Settings, error)
	Save(ctx context.Context, settings *release.Settings) error
}

// FileRepository persists the settings to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the settings file.
	path string
	// mu protects concurrent access to the settings file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the settings file does not exist yet.
	ErrNotFound = errors.New("settings not found")
	// errSettingsIsNotSet is returned when Save receives nil.
	errSettingsIsNotSet = errors.New("settings are not set")
)

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the settings from disk.
func (r *FileRepository) Load(_ context.Context) (*release.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read settings file: %w", err)
	}

	// Missing keys keep their defaults.
	settings := release.DefaultSettings()
	if err = yaml.Unmarshal(contents, &settings); err != nil {
		return nil, fmt.Errorf("decode settings file: %w", err)
	}

	if err = settings.Normalize(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Save writes the settings to disk.
func (r *FileRepository) Save(_ context.Context, settings *release.Settings) error {
	if settings == nil {
		return errSettingsIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}
