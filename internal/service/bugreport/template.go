package bugreport

import (
	"fmt"
	"strings"

	"github.com/wpbt/beta-tester/internal/render"
)

// Format is the markup a template is written in.
type Format string

const (
	// FormatWiki is Trac wiki markup.
	FormatWiki Format = "wiki"
	// FormatMarkdown is GitHub Markdown.
	FormatMarkdown Format = "markdown"
)

// Target is a place to file a report.
type Target struct {
	Title  string
	URL    string
	Format Format
}

// Targets lists where reports are filed.
func Targets() []Target {
	return []Target{
		{Title: "Trac", URL: "https://core.trac.wordpress.org/newticket", Format: FormatWiki},
		{Title: "GitHub (Gutenberg)", URL: "https://github.com/WordPress/gutenberg/issues/new/choose", Format: FormatMarkdown},
	}
}

// Introduction explains what to do with a template.
const Introduction = "This area provides bug report templates for pasting into Trac or GitHub.\n\n" +
	"After pasting a template into Trac or GitHub, complete the **Steps to Reproduce**, " +
	"**Expected Results** and **Actual Results** sections."

// Template fills the bug report template for env.
func Template(format Format, env *Environment) string {
	heading, lastStep := "###", "2"
	if format == FormatWiki {
		heading, lastStep = "===", "x"
	}

	environment := strings.Join([]string{
		"- OS: " + env.OS,
		"- Server: " + env.Server,
		"- PHP: " + env.PHP,
		"- WordPress: " + env.WordPress,
		"- Browser: " + env.Browser,
		"- Theme: " + env.Theme,
		"- MU-Plugins: " + pluginList(env.MUPlugins),
		"- Plugins: " + pluginList(env.Plugins),
	}, "\n")

	var b strings.Builder

	fmt.Fprintf(&b, "%s Bug Report\nDescribe the bug.\n\n", heading)
	fmt.Fprintf(&b, "%s Environment\n%s\n\n", heading, environment)
	fmt.Fprintf(&b, "%s Steps to Reproduce\n1.&nbsp;\n%s. \U0001F41E Bug occurs.\n\n", heading, lastStep)
	fmt.Fprintf(&b, "%s Expected Results\n1.&nbsp; ✅ What should happen.\n\n", heading)
	fmt.Fprintf(&b, "%s Actual Results\n1.&nbsp; ❌ What actually happened.", heading)

	return b.String()
}

// pluginList renders one indented line per plugin, or NoneActivated.
func pluginList(labels []string) string {
	if len(labels) == 0 {
		return NoneActivated
	}

	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		lines = append(lines, "&nbsp;&nbsp;* "+label)
	}

	return "\n" + strings.Join(lines, "\n")
}

// Report is a filled template for one target.
type Report struct {
	Target Target
	Body   string
}

// Reports fills the template of every target.
func Reports(env *Environment) []Report {
	targets := Targets()
	reports := make([]Report, 0, len(targets))

	for _, target := range targets {
		reports = append(reports, Report{
			Target: target,
			Body:   Template(target.Format, env),
		})
	}

	return reports
}

// Preview renders a Markdown report as HTML.
func (r Report) Preview() (string, error) {
	return render.HTML(r.Body)
}
