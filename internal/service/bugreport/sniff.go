package bugreport

import (
	"regexp"
	"strconv"
	"strings"
)

// Unknown is reported for values that could not be determined.
const Unknown = "Could not determine"

// osRule maps a user-agent pattern to an operating system name.
type osRule struct {
	pattern *regexp.Regexp
	name    string
}

// osRules are tried in order; the last match wins.
var osRules = []osRule{
	{regexp.MustCompile(`(?i)windows nt 10`), "Windows 10"},
	{regexp.MustCompile(`(?i)windows nt 6.3`), "Windows 8.1"},
	{regexp.MustCompile(`(?i)windows nt 6.2`), "Windows 8"},
	{regexp.MustCompile(`(?i)windows nt 6.1`), "Windows 7"},
	{regexp.MustCompile(`(?i)windows nt 6.0`), "Windows Vista"},
	{regexp.MustCompile(`(?i)windows nt 5.2`), "Windows Server 2003/XP x64"},
	{regexp.MustCompile(`(?i)windows nt 5.1`), "Windows XP"},
	{regexp.MustCompile(`(?i)windows xp`), "Windows XP"},
	{regexp.MustCompile(`(?i)windows nt 5.0`), "Windows 2000"},
	{regexp.MustCompile(`(?i)windows me`), "Windows ME"},
	{regexp.MustCompile(`(?i)win98`), "Windows 98"},
	{regexp.MustCompile(`(?i)win95`), "Windows 95"},
	{regexp.MustCompile(`(?i)win16`), "Windows 3.11"},
	{regexp.MustCompile(`(?i)macintosh|mac os x`), "macOS"},
	{regexp.MustCompile(`(?i)mac_powerpc`), "Mac OS 9"},
	{regexp.MustCompile(`(?i)linux`), "Linux"},
	{regexp.MustCompile(`(?i)ubuntu`), "Ubuntu"},
	{regexp.MustCompile(`(?i)iphone`), "iPhone"},
	{regexp.MustCompile(`(?i)ipod`), "iPod"},
	{regexp.MustCompile(`(?i)ipad`), "iPad"},
	{regexp.MustCompile(`(?i)android`), "Android"},
	{regexp.MustCompile(`(?i)blackberry`), "BlackBerry"},
	{regexp.MustCompile(`(?i)webos`), "Mobile"},
}

var (
	versionPattern       = regexp.MustCompile(`/([0-9.\-]+)`)
	safariVersionPattern = regexp.MustCompile(`Version/([0-9.\-]+)`)
	edgeVersionPattern   = regexp.MustCompile(`Edg/([0-9.\-]+)`)
)

// OS names the operating system of a user agent.
func OS(agent string) string {
	name := Unknown

	if agent == "" {
		return name
	}

	for _, rule := range osRules {
		if rule.pattern.MatchString(agent) {
			name = rule.name
		}
	}

	return name
}

// browserFlags follows the browser globals WordPress sets while loading.
type browserFlags struct {
	lynx, gecko, opera, ns4, safari, ie, edge, chrome, firefox bool
}

func sniffBrowser(agent string) browserFlags {
	var f browserFlags

	lower := strings.ToLower(agent)

	switch {
	case strings.Contains(agent, "Lynx"):
		f.lynx = true
	case strings.Contains(agent, "Edg"):
		f.edge = true
	case strings.Contains(agent, "Opera"), strings.Contains(agent, "OPR/"):
		f.opera = true
	case strings.Contains(agent, "Chrome"):
		f.chrome = !strings.Contains(lower, "chromeframe")
	case strings.Contains(lower, "safari"):
		f.safari = true
	case (strings.Contains(agent, "MSIE") || strings.Contains(agent, "Trident")) && strings.Contains(agent, "Win"):
		f.ie = true
	case strings.Contains(agent, "MSIE") && strings.Contains(agent, "Mac"):
		f.ie = true
	case strings.Contains(agent, "Gecko"):
		f.gecko = true
	case strings.Contains(agent, "Nav") && strings.Contains(agent, "Mozilla/4."):
		f.ns4 = true
	}

	f.firefox = strings.Contains(lower, "firefox")

	return f
}

// Browser names the browser and its version. mobileHint carries the
// Sec-CH-UA-Mobile client hint.
func Browser(agent string, mobileHint bool) string {
	if agent == "" {
		return Unknown
	}

	f := sniffBrowser(agent)

	// Later entries win.
	candidates := []struct {
		name string
		ok   bool
	}{
		{"Lynx", f.lynx},
		{"Gecko", f.gecko},
		{"Opera", f.opera},
		{"Netscape 4", f.ns4},
		{"Safari", f.safari},
		{"Internet Explorer", f.ie},
		{"Edge", f.edge},
		{"Chrome", f.chrome},
		{"Firefox", f.firefox},
	}

	name := ""

	for _, c := range candidates {
		if c.ok {
			name = c.name
		}
	}

	if name == "" {
		return Unknown
	}

	var pattern *regexp.Regexp

	switch name {
	case "Safari":
		pattern = safariVersionPattern
	case "Edge":
		pattern = edgeVersionPattern
	default:
		pattern = regexp.MustCompile(regexp.QuoteMeta(name) + `/([0-9.\-]+)`)
	}

	if match := pattern.FindStringSubmatch(agent); match != nil {
		name += " " + match[1]
	}

	if IsMobile(agent, mobileHint) {
		name += " (Mobile)"
	}

	return name
}

// IsMobile applies the WordPress mobile detection.
func IsMobile(agent string, mobileHint bool) bool {
	if mobileHint {
		return true
	}

	for _, marker := range []string{"Mobile", "Android", "Silk/", "Kindle", "BlackBerry", "Opera Mini", "Opera Mobi"} {
		if strings.Contains(agent, marker) {
			return true
		}
	}

	return false
}

// Server names the web server from its SERVER_SOFTWARE string, followed by
// the operating system and the version when present.
func Server(software, goos string) string {
	if software == "" {
		return Unknown
	}

	apache := strings.Contains(software, "Apache") || strings.Contains(software, "LiteSpeed")
	nginx := strings.Contains(software, "nginx")
	iis := !apache && (strings.Contains(software, "Microsoft-IIS") || strings.Contains(software, "ExpressionDevServer"))
	iis7 := iis && iisMajor(software) >= 7

	// Later entries win.
	candidates := []struct {
		name string
		ok   bool
	}{
		{"Apache", apache},
		{"NGINX", nginx},
		{"IIS", iis},
		{"IIS7", iis7},
	}

	name := ""

	for _, c := range candidates {
		if c.ok {
			name = c.name
		}
	}

	if name == "" {
		return Unknown
	}

	name += " (" + osFamily(goos) + ")"

	if match := versionPattern.FindStringSubmatch(software); match != nil {
		name += " " + match[1]
	}

	return name
}

// iisMajor reads the major version following "Microsoft-IIS/".
func iisMajor(software string) int {
	const marker = "Microsoft-IIS/"

	_, after, found := strings.Cut(software, marker)
	if !found {
		return 0
	}

	end := 0
	for end < len(after) && after[end] >= '0' && after[end] <= '9' {
		end++
	}

	major, err := strconv.Atoi(after[:end])
	if err != nil {
		return 0
	}

	return major
}

// osFamily renders GOOS the way PHP names operating systems.
func osFamily(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "WINNT"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	case "solaris":
		return "SunOS"
	default:
		return goos
	}
}
