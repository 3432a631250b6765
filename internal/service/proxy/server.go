package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/wpbt/beta-tester/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewHandler returns a reverse proxy forwarding every request to upstream
// through the interceptor.
func NewHandler(upstream *url.URL, interceptor *Interceptor) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(upstream)
			r.SetXForwarded()
		},
		Transport: interceptor,
		ErrorLog:  logger.StdLog("proxy", zapcore.ErrorLevel),
	}
}

// Run serves the reverse proxy on listenAddress until ctx is canceled.
func Run(ctx context.Context, listenAddress string, handler http.Handler) error {
	ctx = logger.WithName(ctx, "proxy")

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	return Serve(ctx, lis, handler)
}

// Serve serves handler on lis until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "Update-check proxy listening", "listen_address", lis.Addr().String())

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()
		logger.Info(ctx, "Shutting down update-check proxy")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve proxy: %w", err)
	}

	<-done
	logger.Info(ctx, "Update-check proxy stopped")

	return nil
}
