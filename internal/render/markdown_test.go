package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	t.Parallel()

	out, err := HTML("Please help test **WordPress 6.4**.\n\n- [Dev Notes](https://example.org/?a=1&b=2)\n")
	require.NoError(t, err)
	require.Contains(t, out, "<strong>WordPress 6.4</strong>")
	require.Contains(t, out, `<a href="https://example.org/?a=1&amp;b=2">Dev Notes</a>`)
	require.Contains(t, out, "<ul>")
}

func TestHTML_OmitsRawHTML(t *testing.T) {
	t.Parallel()

	out, err := HTML("Latest news: [Beta 1 <img src=x onerror=alert(1)>](https://example.org/p)\n\n" +
		"<script>alert(2)</script>\n\n&nbsp;&nbsp;* Akismet 5.3\n")
	require.NoError(t, err)
	require.NotContains(t, out, "<img")
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "onerror")
	require.Contains(t, out, `<a href="https://example.org/p">Beta 1`)
	require.Contains(t, out, "Akismet 5.3")
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	out, err := Terminal("# Beta\n\nPlease help test.", 0)
	require.NoError(t, err)
	require.Contains(t, out, "Beta")
	require.Contains(t, out, "test")
}
