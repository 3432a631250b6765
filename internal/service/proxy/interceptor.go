package proxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/wpbt/beta-tester/internal/logger"
)

const (
	// MarkerHeader flags requests that were already rewritten.
	MarkerHeader = "X-Beta-Tester"

	// DefaultHost is the host of the version-check endpoint.
	DefaultHost = "api.wordpress.org"

	// endpointPrefix is the version-check path prefix, for every API version.
	endpointPrefix = "/core/version-check/"
)

// Steering supplies the values spliced into intercepted requests.
type Steering interface {
	// RequestVersion returns the version to report, synthetic or real.
	RequestVersion(ctx context.Context) (string, error)
	// RequestChannel returns the channel query parameter; empty leaves it out.
	RequestChannel(ctx context.Context) (string, error)
}

// Interceptor rewrites version-check requests and passes everything else through.
type Interceptor struct {
	// base performs the actual round trip.
	base http.RoundTripper
	// steering is consulted for every intercepted request.
	steering Steering
	// host is the endpoint host matched case-insensitively.
	host string
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// WithBase sets the underlying transport.
func WithBase(base http.RoundTripper) InterceptorOption {
	return func(i *Interceptor) {
		if base != nil {
			i.base = base
		}
	}
}

// WithHost sets the host whose version-check endpoint is intercepted.
func WithHost(host string) InterceptorOption {
	return func(i *Interceptor) {
		if host != "" {
			i.host = strings.ToLower(host)
		}
	}
}

// NewInterceptor creates an Interceptor. A nil steering passes every request through.
func NewInterceptor(steering Steering, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		base:     http.DefaultTransport,
		steering: steering,
		host:     DefaultHost,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Matches reports whether u addresses the version-check endpoint.
func (i *Interceptor) Matches(u *url.URL) bool {
	if u == nil {
		return false
	}

	return strings.EqualFold(u.Hostname(), i.host) && strings.HasPrefix(u.Path, endpointPrefix)
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if i.steering == nil || req.Header.Get(MarkerHeader) != "" || !i.Matches(req.URL) {
		return i.base.RoundTrip(req)
	}

	ctx := logger.WithName(req.Context(), "interceptor")

	out := req.Clone(req.Context())
	query := out.URL.Query()

	channel, err := i.steering.RequestChannel(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Unable to resolve channel, leaving it out", "error", err)
	} else if channel != "" {
		query.Set("channel", channel)
	}

	requestVersion, err := i.steering.RequestVersion(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Unable to resolve request version, keeping the original", "error", err)
	} else if requestVersion != "" {
		query.Set("version", requestVersion)
	}

	out.URL.RawQuery = query.Encode()
	out.Header.Set(MarkerHeader, "1")

	logger.InfoKV(ctx, "Version check rewritten",
		"channel", query.Get("channel"),
		"version", query.Get("version"))

	return i.base.RoundTrip(out)
}
