package site

import (
	"net/url"
	"strings"
)

// Settings page identifiers.
const (
	// PageSlug is the admin page of the plugin.
	PageSlug = "wp-beta-tester"
	// TabCore is the channel settings tab.
	TabCore = "wp_beta_tester_core"
	// TabBugReport is the bug report tab.
	TabBugReport = "wp_beta_tester_bug_report"
)

// Links builds admin URLs for a site.
type Links struct {
	// SiteURL is the public site URL, e.g. "https://example.com".
	SiteURL string
	// Multisite places the settings page in the network admin.
	Multisite bool
}

// MenuItem is an admin-bar entry.
type MenuItem struct {
	ID    string
	Title string
	Href  string
	Hint  string
}

// SettingsURL returns the settings page URL for a tab. An empty tab points
// at the page itself.
func (l Links) SettingsURL(tab string) string {
	query := url.Values{}
	query.Set("page", PageSlug)

	if tab != "" {
		query.Set("tab", tab)
	}

	return l.adminPage() + "?" + query.Encode()
}

// ReportBugMenu returns the admin-bar entry pointing at the bug report tab.
func (l Links) ReportBugMenu() MenuItem {
	return MenuItem{
		ID:    "wp-beta-tester-report-a-bug",
		Title: "Report a Bug",
		Href:  l.SettingsURL(TabBugReport),
		Hint:  "Discovered a bug? Report it now!",
	}
}

// adminPage is tools.php on single sites and the network settings.php on multisite.
func (l Links) adminPage() string {
	base := strings.TrimRight(l.SiteURL, "/") + "/wp-admin/"
	if l.Multisite {
		return base + "network/settings.php"
	}

	return base + "tools.php"
}
