package integration

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/service/common"
	"github.com/wpbt/beta-tester/internal/service/server"
)

// updateAPI is a stand-in for api.wordpress.org. It offers the latest 6.4
// point release to versions on the 6.4 branch and the 6.5 release candidate
// to everything else.
type updateAPI struct {
	mu sync.Mutex
	// queries holds the query of every version check, oldest first.
	queries []map[string]string
	// paths holds every requested path.
	paths []string
}

func (a *updateAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.paths = append(a.paths, r.URL.Path)

	if !strings.HasPrefix(r.URL.Path, "/core/version-check/") {
		a.mu.Unlock()

		_, _ = io.WriteString(w, "{}")

		return
	}

	query := map[string]string{
		"version": r.URL.Query().Get("version"),
		"channel": r.URL.Query().Get("channel"),
		"locale":  r.URL.Query().Get("locale"),
		"marker":  r.Header.Get("X-Beta-Tester"),
	}
	a.queries = append(a.queries, query)
	a.mu.Unlock()

	offer := release.Preferred{Response: "development", Current: "6.5-RC2", Version: "6.5-RC2", Locale: "en_US"}
	if strings.HasPrefix(query["version"], "6.4") {
		offer = release.Preferred{Response: "upgrade", Current: "6.4.3", Version: "6.4.3", Locale: "en_US"}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"offers": []release.Preferred{offer}})
}

func (a *updateAPI) lastQuery() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queries) == 0 {
		return nil
	}

	return a.queries[len(a.queries)-1]
}

func (a *updateAPI) checks() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.queries)
}

func (a *updateAPI) lastPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.paths) == 0 {
		return ""
	}

	return a.paths[len(a.paths)-1]
}

// freeAddress reserves a free local port.
func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startServer runs wpbt-server with a temporary configuration.
// Returns a stop function to gracefully shutdown the server.
func startServer(t *testing.T, cfg *config.Config) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "wpbt.yaml")

	require.NoError(t, config.Save(cfgPath, cfg))

	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = server.Run(ctx, &server.Options{ConfigPath: cfgPath}) //nolint:errcheck // Stopped by cancel.
	}()

	// Wait briefly for server to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() {
		cancel()
		<-done
	}
}

// TestServer_SteersVersionChecks walks through a tester on a release
// candidate: the default point stream offers the last stable release, which
// is flagged as a downgrade, and switching to the beta/RC stream fixes it.
func TestServer_SteersVersionChecks(t *testing.T) {
	t.Parallel()

	api := new(updateAPI)
	upstream := httptest.NewServer(api)
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	serverAddress := freeAddress(t)
	proxyAddress := freeAddress(t)

	stop := startServer(t, &config.Config{
		ServerAddress:    serverAddress,
		ProxyAddress:     proxyAddress,
		UpdateAPI:        upstream.URL,
		SiteURL:          "https://example.org",
		InstalledVersion: "6.5-RC1",
		SettingsFile:     filepath.Join(dir, "settings.yaml"),
		CacheFile:        filepath.Join(dir, "update-core.yaml"),
		Timeout:          5 * time.Second,
	})
	defer stop()

	ctx := context.Background()

	c, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	settings, err := c.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, release.DefaultSettings(), settings)

	// First check reports the real version; the answer is the RC on offer.
	requestVersion, err := c.RequestVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "6.4.101-wp-beta-tester", requestVersion)
	require.Equal(t, map[string]string{
		"version": "6.5-RC1",
		"channel": "branch-development",
		"locale":  "en_US",
		"marker":  "1",
	}, api.lastQuery())

	check, err := c.CheckDowngrade(ctx)
	require.NoError(t, err)
	require.Equal(t, "6.4.101-wp-beta-tester", api.lastQuery()["version"])
	require.True(t, check.IsDowngrade)
	require.Equal(t, "6.4.3", check.Next)
	require.Contains(t, check.Notice, "https://example.org/wp-admin/tools.php?page=wp-beta-tester")

	stream := string(release.StreamBetaRCPoint)
	revert := false
	option := "RC"

	settings, err = c.UpdateSettings(ctx, common.SettingsPatch{
		Stream:       &stream,
		Revert:       &revert,
		StreamOption: &option,
	})
	require.NoError(t, err)
	require.Equal(t, release.StreamBetaRCPoint, settings.Stream)
	require.Equal(t, "rc", settings.StreamOption)

	// The settings change refreshed the check with the new stream.
	require.Equal(t, "6.5.1-wp-beta-tester", api.lastQuery()["version"])
	require.Equal(t, "rc", api.lastQuery()["channel"])

	check, err = c.CheckDowngrade(ctx)
	require.NoError(t, err)
	require.False(t, check.IsDowngrade)
	require.Equal(t, "6.5-RC2", check.Next)
	require.Empty(t, check.Notice)

	_, err = os.Stat(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)

	// WordPress itself goes through the proxy.
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get("http://" + proxyAddress + "/core/version-check/1.7/?version=6.5-RC1&locale=en_US")
	require.NoError(t, err)

	var body struct {
		Offers []release.Preferred `json:"offers"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "6.5-RC2", body.Offers[0].Version)
	require.Equal(t, "6.5.1-wp-beta-tester", api.lastQuery()["version"])
	require.Equal(t, "en_US", api.lastQuery()["locale"])

	checks := api.checks()

	resp, err = client.Get("http://" + proxyAddress + "/plugins/update-check/1.1/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "/plugins/update-check/1.1/", api.lastPath())
	require.Equal(t, checks, api.checks())
}
