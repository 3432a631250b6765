package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultWidth is the terminal word-wrap width.
const DefaultWidth = 80

// markdownInstance is initialized once and reused; goldmark is safe to share.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		// Raw HTML is omitted: feed titles, user agents and plugin headers
		// end up in the markdown.
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})

	return markdownInstance
}

// HTML converts Markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer

	if err := getMarkdown().Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return buf.String(), nil
}

// Terminal renders Markdown for display in a terminal. A non-positive width
// falls back to DefaultWidth.
func Terminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return out, nil
}
