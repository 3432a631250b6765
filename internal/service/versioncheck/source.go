package versioncheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
	repo "github.com/wpbt/beta-tester/internal/repository/updatecore"
	"github.com/wpbt/beta-tester/internal/site"
	"github.com/wpbt/beta-tester/internal/version"
)

const (
	// CheckPath is the version-check endpoint, relative to the API base URL.
	CheckPath = "/core/version-check/1.7/"

	// maxResponseSize bounds the version-check body.
	maxResponseSize = 1 << 20
)

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	// ErrNoOffers is returned by Next when the cache holds no offer.
	ErrNoOffers = errors.New("no offers cached")
)

// refreshKey marks a context that is already running a version check.
type refreshKey struct{}

// IsRefresh reports whether ctx belongs to a running version check.
func IsRefresh(ctx context.Context) bool {
	refreshing, _ := ctx.Value(refreshKey{}).(bool)
	return refreshing
}

// Source performs and caches core version checks.
type Source struct {
	// cache stores the last version-check response.
	cache repo.Repository
	// versions returns the installed version.
	versions site.VersionSource
	// client performs the HTTP request; its transport may be the interceptor.
	client *http.Client
	// apiURL is the WordPress.org API base URL.
	apiURL string
	// locale is sent with every check.
	locale string
	// ttl is how long a cached response is trusted.
	ttl time.Duration
	// now returns the current time.
	now func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces the HTTP client used for checks.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithAPI sets the API base URL.
func WithAPI(apiURL string) Option {
	return func(s *Source) {
		if apiURL != "" {
			s.apiURL = strings.TrimRight(apiURL, "/")
		}
	}
}

// WithLocale sets the locale sent with checks.
func WithLocale(locale string) Option {
	return func(s *Source) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithTTL sets how long cached offers are used before a new check.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSource creates a Source backed by the given cache and version source.
func NewSource(cache repo.Repository, versions site.VersionSource, opts ...Option) *Source {
	s := &Source{
		cache:    cache,
		versions: versions,
		client:   &http.Client{Timeout: config.DefaultTimeout},
		apiURL:   config.DefaultUpdateAPI,
		locale:   config.DefaultLocale,
		ttl:      config.DefaultCacheTTL,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// InstalledVersion exposes the version source.
func (s *Source) InstalledVersion(ctx context.Context) (string, error) {
	return s.versions.InstalledVersion(ctx)
}

// offersResponse is the part of the version-check response we keep.
type offersResponse struct {
	Offers []release.Preferred `json:"offers"`
}

// Check asks the API for offers and caches the response.
func (s *Source) Check(ctx context.Context) (*repo.Record, error) {
	ctx = context.WithValue(ctx, refreshKey{}, true)

	installed, err := s.versions.InstalledVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("installed version: %w", err)
	}

	checkURL, err := s.checkURL(installed)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", version.UserAgent())

	response, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("version check: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", checkURL, response.Status, errBadHTTPStatus)
	}

	var body offersResponse
	if err = json.NewDecoder(io.LimitReader(response.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode version check: %w", err)
	}

	record := &repo.Record{
		LastChecked:    s.now(),
		VersionChecked: installed,
		Offers:         body.Offers,
	}

	if err = s.cache.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("cache version check: %w", err)
	}

	logger.InfoKV(ctx, "Version check completed", "installed", installed, "offers", len(record.Offers))

	return record, nil
}

// Preferred returns the preferred update, running a check when nothing usable
// is cached. Failures are logged and yield nil.
func (s *Source) Preferred(ctx context.Context) *release.Preferred {
	record, err := s.cache.Load(ctx)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		logger.WarnKV(ctx, "Unable to read update cache", "error", err)
	}

	if record.IsFresh(s.now(), s.ttl) && record.First() != nil {
		return record.First()
	}

	if IsRefresh(ctx) {
		return record.First()
	}

	checked, err := s.Check(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Version check failed", "error", err)

		return record.First()
	}

	return checked.First()
}

// Invalidate zeroes the cached check time so that the next call checks again.
func (s *Source) Invalidate(ctx context.Context) error {
	record, err := s.cache.Load(ctx)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}

		return err
	}

	record.LastChecked = time.Time{}

	return s.cache.Save(ctx, record)
}

// Next returns the version of the update currently on offer in the cache.
func (s *Source) Next(ctx context.Context) (string, error) {
	record, err := s.cache.Load(ctx)
	if err != nil {
		return "", err
	}

	offer := record.First()
	if offer == nil {
		return "", ErrNoOffers
	}

	return offer.Version, nil
}

// checkURL builds the version-check request URL for the installed version.
func (s *Source) checkURL(installed string) (string, error) {
	base, err := url.Parse(s.apiURL + CheckPath)
	if err != nil {
		return "", fmt.Errorf("parse update API: %w", err)
	}

	query := base.Query()
	query.Set("version", installed)
	query.Set("locale", s.locale)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
