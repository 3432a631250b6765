package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
	settingsrepo "github.com/wpbt/beta-tester/internal/repository/settings"
	cacherepo "github.com/wpbt/beta-tester/internal/repository/updatecore"
	"github.com/wpbt/beta-tester/internal/service/versioncheck"
	"github.com/wpbt/beta-tester/internal/site"
)

// UpdateSource is the part of versioncheck.Source the service relies on.
type UpdateSource interface {
	InstalledVersion(ctx context.Context) (string, error)
	Preferred(ctx context.Context) *release.Preferred
	Check(ctx context.Context) (*cacherepo.Record, error)
	Invalidate(ctx context.Context) error
	Next(ctx context.Context) (string, error)
}

// service combines the option store, the update source and the mangler.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// repo persists the settings.
	repo settingsrepo.Repository
	// source answers version checks; attached after construction because its
	// HTTP client goes through the interceptor that consults this service.
	source UpdateSource
	// links builds admin URLs for notices.
	links site.Links
	// settings is the current in-memory copy of the option store.
	settings release.Settings
	// mu protects settings.
	mu sync.RWMutex
}

var errNoUpdateSource = errors.New("update source is not attached")

// newService creates a service backed by the provided repository.
func newService(ctx context.Context, repository settingsrepo.Repository, links site.Links) (*service, error) {
	s := &service{
		repo:     repository,
		links:    links,
		settings: release.DefaultSettings(),
	}

	if repository == nil {
		return s, nil
	}

	settings, err := repository.Load(ctx)
	switch {
	case err == nil:
		if settings != nil {
			s.settings = *settings
		}
	case errors.Is(err, settingsrepo.ErrNotFound):
		// Keep default settings.
	default:
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return s, nil
}

// attach sets the update source.
func (s *service) attach(source UpdateSource) {
	s.source = source
}

// Settings returns the current settings.
func (s *service) Settings(_ context.Context) release.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// UpdateSettings applies change to a copy of the current settings, validates
// and persists the result, then refreshes the cached version check so the new
// channel is offered right away. The read-modify-write runs under one lock so
// concurrent partial updates keep each other's fields.
func (s *service) UpdateSettings(
	ctx context.Context,
	change func(*release.Settings) error,
) (release.Settings, error) {
	s.mu.Lock()

	settings := s.settings
	if err := change(&settings); err != nil {
		s.mu.Unlock()
		return release.Settings{}, err
	}

	if err := settings.Normalize(); err != nil {
		s.mu.Unlock()
		return release.Settings{}, err
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, &settings); err != nil {
			s.mu.Unlock()
			logger.Errorf(ctx, "Failed to persist settings: %v", err)

			return release.Settings{}, fmt.Errorf("persist settings: %w", err)
		}
	}

	s.settings = settings
	s.mu.Unlock()

	logger.InfoKV(ctx, "Beta tester settings updated",
		"stream", settings.Stream,
		"revert", settings.Revert,
		"channel", settings.RequestChannel())

	s.refresh(ctx)

	return settings, nil
}

// refresh forces a new version check. Failures are only logged.
func (s *service) refresh(ctx context.Context) {
	if s.source == nil {
		return
	}

	if err := s.source.Invalidate(ctx); err != nil {
		logger.WarnKV(ctx, "Unable to invalidate update cache", "error", err)
	}

	if _, err := s.source.Check(ctx); err != nil {
		logger.WarnKV(ctx, "Version check after settings change failed", "error", err)
	}
}

// RequestVersion returns the version to report in version checks.
func (s *service) RequestVersion(ctx context.Context) (string, error) {
	if s.source == nil {
		return "", errNoUpdateSource
	}

	installed, err := s.source.InstalledVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("installed version: %w", err)
	}

	selection := s.Settings(ctx).Selection()
	preferred := s.source.Preferred(ctx)
	requestVersion := release.RequestVersion(release.Parse(installed), preferred, selection)

	logger.DebugKV(ctx, "Request version computed",
		"installed", installed,
		"selection", selection.String(),
		"request_version", requestVersion)

	return requestVersion, nil
}

// RequestChannel returns the channel for version checks.
func (s *service) RequestChannel(ctx context.Context) (string, error) {
	return s.Settings(ctx).RequestChannel(), nil
}

// CheckDowngrade refreshes the version check and reports whether the offered
// update would take the install back to an earlier release.
func (s *service) CheckDowngrade(ctx context.Context) (*release.DowngradeCheck, error) {
	if s.source == nil {
		return nil, errNoUpdateSource
	}

	installed, err := s.source.InstalledVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("installed version: %w", err)
	}

	// Work around check throttling.
	s.refresh(ctx)

	next, err := s.source.Next(ctx)
	if err != nil && !errors.Is(err, cacherepo.ErrNotFound) && !errors.Is(err, versioncheck.ErrNoOffers) {
		return nil, fmt.Errorf("read offered version: %w", err)
	}

	check := release.NewDowngradeCheck(installed, next)
	if !check.IsDowngrade {
		return check, nil
	}

	check.Notice, err = s.links.DowngradeNotice()
	if err != nil {
		return nil, fmt.Errorf("render notice: %w", err)
	}

	logger.WarnKV(ctx, "Configured stream downgrades the install", "installed", installed, "next", next)

	return check, nil
}
