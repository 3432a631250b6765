package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/render"
	"github.com/wpbt/beta-tester/internal/site"
)

const (
	makeCoreTagURL = "https://make.wordpress.org/core/tag/"
	tracQueryURL   = "https://core.trac.wordpress.org/query"
	// TracSearchURL is where testers look for existing tickets.
	TracSearchURL = "https://core.trac.wordpress.org/search"
)

var (
	// ErrStableRelease is returned when the installed version is not a pre-release.
	ErrStableRelease = errors.New("installed version is not a pre-release")

	betaOrRCPattern = regexp.MustCompile(`beta|RC`)
	rcPattern       = regexp.MustCompile(`RC`)
)

// Widget is the dashboard content for one installed version.
type Widget struct {
	// Version is the installed version.
	Version string
	// Milestone is the release being tested, e.g. "6.4".
	Milestone string
	// Markdown is the widget body.
	Markdown string
}

// HTML renders the widget for the admin dashboard.
func (w *Widget) HTML() (string, error) {
	return render.HTML(w.Markdown)
}

// Terminal renders the widget for the terminal.
func (w *Widget) Terminal(width int) (string, error) {
	return render.Terminal(w.Markdown, width)
}

// Dashboard builds widgets and keeps the news feed fresh across upgrades.
type Dashboard struct {
	versions site.VersionSource
	links    site.Links
	feed     *Feed

	mu sync.Mutex
	// seenVersion is the installed version the feed cache belongs to.
	seenVersion string
}

// New creates a dashboard.
func New(versions site.VersionSource, links site.Links, feed *Feed) *Dashboard {
	return &Dashboard{
		versions: versions,
		links:    links,
		feed:     feed,
	}
}

// Build returns the widget for the installed version. It fails with
// ErrStableRelease unless a pre-release is installed. An unavailable feed
// only drops the news entry.
func (d *Dashboard) Build(ctx context.Context) (*Widget, error) {
	ctx = logger.WithName(ctx, "dashboard")

	installed, err := d.versions.InstalledVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("installed version: %w", err)
	}

	d.purgeOnUpgrade(ctx, installed)

	v := release.Parse(installed)
	if v.IsStable() {
		return nil, ErrStableRelease
	}

	milestone := v.Milestone()

	var news *Item

	if d.feed != nil {
		news, err = d.feed.Find(ctx, milestone)
		if err != nil {
			logger.WarnKV(ctx, "Development feed unavailable", "error", err)
		}
	}

	return &Widget{
		Version:   installed,
		Milestone: milestone,
		Markdown:  compose(installed, milestone, news, d.links.SettingsURL("")),
	}, nil
}

// purgeOnUpgrade drops the cached feed once the installed version changes.
func (d *Dashboard) purgeOnUpgrade(ctx context.Context, installed string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seenVersion == installed {
		return
	}

	if d.seenVersion != "" && d.feed != nil {
		d.feed.Purge()
		logger.InfoKV(ctx, "Core version changed, development feed purged",
			"from", d.seenVersion,
			"to", installed)
	}

	d.seenVersion = installed
}

// compose writes the widget Markdown.
func compose(installed, milestone string, news *Item, settingsURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please help test **WordPress %s**.\n\n", milestone)

	dash := strings.ReplaceAll(milestone, ".", "-")

	if betaOrRCPattern.MatchString(installed) {
		fmt.Fprintf(&b, "- [WordPress %s Dev Notes](%s%s+dev-notes/)\n", milestone, makeCoreTagURL, dash)
	}

	if rcPattern.MatchString(installed) {
		fmt.Fprintf(&b, "- [WordPress %s Field Guide](%s%s+field-guide/)\n", milestone, makeCoreTagURL, dash)
	}

	b.WriteString("\n")

	if news != nil && news.Link != "" {
		fmt.Fprintf(&b, "Latest news: [%s](%s)\n\n", news.Title, news.Link)
	}

	fmt.Fprintf(&b, "Here are the [commits for the milestone](%s).\n\n", MilestoneCommitsURL(milestone))
	fmt.Fprintf(&b,
		"\U0001F41B Did you find a bug? Search for a [trac ticket](%s) to see if it has already been reported.\n\n",
		TracSearchURL)
	fmt.Fprintf(&b,
		"Head over to your [WordPress Beta Tester Settings](%s) and make sure the **beta/RC** stream is selected.\n",
		settingsURL)

	return b.String()
}

// MilestoneCommitsURL lists the closed and reopened tickets of a milestone.
func MilestoneCommitsURL(milestone string) string {
	query := url.Values{}
	query.Add("status", "closed")
	query.Add("status", "reopened")
	query.Set("milestone", milestone)

	return tracQueryURL + "?" + query.Encode()
}
