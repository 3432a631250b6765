package site

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLinks_SettingsURL checks single site and multisite admin pages.
func TestLinks_SettingsURL(t *testing.T) {
	t.Parallel()

	single := Links{SiteURL: "https://example.com/"}
	require.Equal(t,
		"https://example.com/wp-admin/tools.php?page=wp-beta-tester&tab=wp_beta_tester_core",
		single.SettingsURL(TabCore))
	require.Equal(t, "https://example.com/wp-admin/tools.php?page=wp-beta-tester", single.SettingsURL(""))

	network := Links{SiteURL: "https://example.com", Multisite: true}
	require.Equal(t,
		"https://example.com/wp-admin/network/settings.php?page=wp-beta-tester&tab=wp_beta_tester_bug_report",
		network.ReportBugMenu().Href)
}

// TestLinks_DowngradeNotice embeds the escaped settings link.
func TestLinks_DowngradeNotice(t *testing.T) {
	t.Parallel()

	notice, err := Links{SiteURL: "https://example.com"}.DowngradeNotice()
	require.NoError(t, err)
	require.Contains(t, notice, `class="notice notice-warning"`)
	require.Contains(t, notice, `href="https://example.com/wp-admin/tools.php?page=wp-beta-tester&amp;tab=wp_beta_tester_core"`)
	require.Contains(t, notice, "will downgrade your install to a previous version")
}
