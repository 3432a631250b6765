package bugreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	edgeWindows  = chromeWindows + " Edg/120.0.2210.91"
	firefoxLinux = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	safariIPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	safariMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/17.2 Safari/605.1.15"
	ie11 = "Mozilla/5.0 (Windows NT 6.1; Trident/7.0; rv:11.0) like Gecko"
)

func TestOS(t *testing.T) {
	t.Parallel()

	cases := []struct {
		agent string
		want  string
	}{
		{"", Unknown},
		{chromeWindows, "Windows 10"},
		{firefoxLinux, "Ubuntu"},
		{safariIPhone, "iPhone"},
		{safariMac, "macOS"},
		{ie11, "Windows 7"},
		{"curl/8.4.0", Unknown},
		{"Opera/9.80 (J2ME/MIDP; Opera Mini/9.80; U; webOS)", "Mobile"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, OS(tc.agent), tc.agent)
	}
}

func TestBrowser(t *testing.T) {
	t.Parallel()

	cases := []struct {
		agent  string
		mobile bool
		want   string
	}{
		{"", false, Unknown},
		{chromeWindows, false, "Chrome 120.0.0.0"},
		{edgeWindows, false, "Edge 120.0.2210.91"},
		{firefoxLinux, false, "Firefox 121.0"},
		{safariIPhone, false, "Safari 17.2 (Mobile)"},
		{safariMac, false, "Safari 17.2"},
		{safariMac, true, "Safari 17.2 (Mobile)"},
		{ie11, false, "Internet Explorer"},
		{"Lynx/2.8.9rel.1 libwww-FM/2.14", false, "Lynx 2.8.9"},
		{"curl/8.4.0", false, Unknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Browser(tc.agent, tc.mobile), tc.agent)
	}
}

func TestServer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		software string
		goos     string
		want     string
	}{
		{"", "linux", Unknown},
		{"nginx/1.25.3", "linux", "NGINX (Linux) 1.25.3"},
		{"Apache/2.4.58 (Ubuntu)", "linux", "Apache (Linux) 2.4.58"},
		{"LiteSpeed", "linux", "Apache (Linux)"},
		{"Microsoft-IIS/10.0", "windows", "IIS7 (WINNT) 10.0"},
		{"Microsoft-IIS/6.0", "windows", "IIS (WINNT) 6.0"},
		{"nginx", "darwin", "NGINX (Darwin)"},
		{"Caddy", "linux", Unknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Server(tc.software, tc.goos), tc.software)
	}
}
