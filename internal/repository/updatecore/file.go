package updatecore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
)

// Record is a cached version-check response.
type Record struct {
	// LastChecked is when the response was fetched. Zero forces a refresh.
	LastChecked time.Time `yaml:"last_checked"`
	// VersionChecked is the installed version the check was made for.
	VersionChecked string `yaml:"version_checked"`
	// Offers are the updates in the order the API returned them.
	Offers []release.Preferred `yaml:"updates"`
}

// First returns the first offer or nil.
func (r *Record) First() *release.Preferred {
	if r == nil || len(r.Offers) == 0 {
		return nil
	}

	offer := r.Offers[0]

	return &offer
}

// IsFresh reports whether the record is younger than ttl at the moment now.
func (r *Record) IsFresh(now time.Time, ttl time.Duration) bool {
	if r == nil || r.LastChecked.IsZero() {
		return false
	}

	return now.Sub(r.LastChecked) < ttl
}

// Repository defines persistence operations for the version-check cache.
type Repository interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, record *Record) error
}

// FileRepository stores the record as YAML on disk.
type FileRepository struct {
	// path is the filesystem location of the cache file.
	path string
	// mu protects concurrent access to the cache file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when nothing has been cached yet.
	ErrNotFound = errors.New("update cache not found")
	// errRecordIsNotSet is returned when Save receives nil.
	errRecordIsNotSet = errors.New("update record is not set")
)

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the cached record from disk.
func (r *FileRepository) Load(_ context.Context) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read update cache: %w", err)
	}

	var record Record
	if err = yaml.Unmarshal(contents, &record); err != nil {
		return nil, fmt.Errorf("decode update cache: %w", err)
	}

	return &record, nil
}

// Save writes the record to disk.
func (r *FileRepository) Save(_ context.Context, record *Record) error {
	if record == nil {
		return errRecordIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode update cache: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write update cache: %w", err)
	}

	return nil
}
