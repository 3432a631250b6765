package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTestSteering = errors.New("test steering error")

// fakeSteering returns fixed values for the interceptor.
type fakeSteering struct {
	version    string
	versionErr error
	channel    string
	calls      int
}

// RequestVersion returns the configured version.
func (f *fakeSteering) RequestVersion(context.Context) (string, error) {
	f.calls++

	return f.version, f.versionErr
}

// RequestChannel returns the configured channel.
func (f *fakeSteering) RequestChannel(context.Context) (string, error) {
	return f.channel, nil
}

// recordingTransport captures the last request and answers 200.
type recordingTransport struct {
	last *http.Request
}

// RoundTrip records req and returns an empty JSON body.
func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.last = req

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// roundTrip sends a GET for rawURL through the interceptor.
func roundTrip(t *testing.T, i *Interceptor, rawURL string, header http.Header) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, rawURL, http.NoBody)
	require.NoError(t, err)

	for key, values := range header {
		req.Header[key] = values
	}

	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
}

// TestInterceptor_RewritesVersionCheck splices version and channel into the endpoint request.
func TestInterceptor_RewritesVersionCheck(t *testing.T) {
	t.Parallel()

	steering := &fakeSteering{version: "6.4.1-wp-beta-tester", channel: "rc"}
	transport := new(recordingTransport)
	i := NewInterceptor(steering, WithBase(transport))

	roundTrip(t, i, "https://api.wordpress.org/core/version-check/1.7/?version=6.4&locale=en_US&php=8.2", nil)

	query := transport.last.URL.Query()
	require.Equal(t, "6.4.1-wp-beta-tester", query.Get("version"))
	require.Equal(t, "rc", query.Get("channel"))
	require.Equal(t, "en_US", query.Get("locale"))
	require.Equal(t, "8.2", query.Get("php"))
	require.Equal(t, "1", transport.last.Header.Get(MarkerHeader))
}

// TestInterceptor_PassThrough leaves other endpoints and marked requests alone.
func TestInterceptor_PassThrough(t *testing.T) {
	t.Parallel()

	steering := &fakeSteering{version: "6.4.1-wp-beta-tester", channel: "rc"}
	transport := new(recordingTransport)
	i := NewInterceptor(steering, WithBase(transport))

	roundTrip(t, i, "https://api.wordpress.org/plugins/update-check/1.1/?version=6.4", nil)
	require.Equal(t, "6.4", transport.last.URL.Query().Get("version"))

	roundTrip(t, i, "https://example.com/core/version-check/1.7/?version=6.4", nil)
	require.Equal(t, "6.4", transport.last.URL.Query().Get("version"))

	marked := http.Header{MarkerHeader: []string{"1"}}
	roundTrip(t, i, "https://api.wordpress.org/core/version-check/1.7/?version=6.4", marked)
	require.Equal(t, "6.4", transport.last.URL.Query().Get("version"))

	require.Zero(t, steering.calls)
}

// TestInterceptor_SteeringFailure keeps the original version but still adds the channel.
func TestInterceptor_SteeringFailure(t *testing.T) {
	t.Parallel()

	steering := &fakeSteering{versionErr: errTestSteering, channel: "branch-development"}
	transport := new(recordingTransport)
	i := NewInterceptor(steering, WithBase(transport), WithHost("API.WordPress.org"))

	roundTrip(t, i, "http://api.wordpress.org/core/version-check/1.7/?version=6.4", nil)

	query := transport.last.URL.Query()
	require.Equal(t, "6.4", query.Get("version"))
	require.Equal(t, "branch-development", query.Get("channel"))
}

// TestInterceptor_Matches checks the endpoint pattern.
func TestInterceptor_Matches(t *testing.T) {
	t.Parallel()

	i := NewInterceptor(nil, WithHost("127.0.0.1"))

	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:8080/core/version-check/1.7/", http.NoBody)
	require.NoError(t, err)
	require.True(t, i.Matches(req.URL))
	require.False(t, i.Matches(nil))
}
