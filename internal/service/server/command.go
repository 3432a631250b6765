package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/wpbt/beta-tester/internal/api/grpc/betatester"
	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/logger"
	settingsrepo "github.com/wpbt/beta-tester/internal/repository/settings"
	cacherepo "github.com/wpbt/beta-tester/internal/repository/updatecore"
	"github.com/wpbt/beta-tester/internal/service/proxy"
	"github.com/wpbt/beta-tester/internal/service/versioncheck"
	"github.com/wpbt/beta-tester/internal/site"
)

// Options controls the wpbt-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// ProxyAddress provides an optional listen address override for the update-check proxy.
	ProxyAddress string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the admin API and the update-check proxy and blocks until
// context is canceled or either of them stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "wpbt-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	proxyAddress := settings.ProxyAddress
	if opts.ProxyAddress != "" {
		proxyAddress = opts.ProxyAddress
	}

	upstream, err := url.Parse(settings.UpdateAPI)
	if err != nil {
		return fmt.Errorf("parse update API URL: %w", err)
	}

	svc, interceptor, err := assemble(ctx, settings, upstream)
	if err != nil {
		return err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterBetaTesterServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Admin API listening",
		"listen_address", listenAddress,
		"settings_file", settings.SettingsFile,
		"update_api", upstream.String())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return proxy.Run(groupCtx, proxyAddress, proxy.NewHandler(upstream, interceptor))
	})

	group.Go(func() error {
		// Done channel is closed after GracefulStop finishes to ensure we block
		// until the server fully stops before returning.
		done := make(chan struct{})

		go func() {
			<-groupCtx.Done()
			logger.Info(ctx, "Shutting down gRPC server")
			grpcServer.GracefulStop()
			close(done)
		}()

		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		<-done
		logger.Info(ctx, "GRPC server stopped")

		return nil
	})

	return group.Wait()
}

// assemble builds the service and the interceptor steering version checks
// through it. Version checks of the service itself also pass the interceptor,
// so the update server answers for the configured stream.
func assemble(ctx context.Context, settings *config.Config, upstream *url.URL) (*service, *proxy.Interceptor, error) {
	versions, err := site.NewVersionSource(settings.InstalledVersion, settings.WordPressPath)
	if err != nil {
		return nil, nil, fmt.Errorf("installed version source: %w", err)
	}

	links := site.Links{
		SiteURL:   settings.SiteURL,
		Multisite: settings.Multisite,
	}

	svc, err := newService(ctx, settingsrepo.NewFileRepository(settings.SettingsFile), links)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise service: %w", err)
	}

	interceptor := proxy.NewInterceptor(svc, proxy.WithHost(upstream.Hostname()))

	source := versioncheck.NewSource(
		cacherepo.NewFileRepository(settings.CacheFile),
		versions,
		versioncheck.WithHTTPClient(&http.Client{
			Transport: interceptor,
			Timeout:   settings.Timeout,
		}),
		versioncheck.WithAPI(settings.UpdateAPI),
		versioncheck.WithLocale(settings.Locale),
		versioncheck.WithTTL(settings.CacheTTL),
	)

	svc.attach(source)

	return svc, interceptor, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
