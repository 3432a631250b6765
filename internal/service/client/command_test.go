package client

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wpbt/beta-tester/internal/domain/release"
)

func TestPrintSettings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, printSettings(&buf, release.DefaultSettings()))
	require.Equal(t, "stream: point\nrevert: true\nchannel: branch-development\nstream-option: \"\"\n", buf.String())
}

func TestPrintDowngrade(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := printDowngrade(&buf, &release.DowngradeCheck{Installed: "6.4", Next: "6.4.1"}, false)
	require.NoError(t, err)
	require.Equal(t, "installed: 6.4\noffered:   6.4.1\n", buf.String())

	buf.Reset()

	err = printDowngrade(&buf, &release.DowngradeCheck{
		Installed:   "6.4",
		Next:        "6.3",
		IsDowngrade: true,
		Notice:      "<div>notice</div>",
	}, true)
	require.ErrorIs(t, err, ErrDowngrade)
	require.Contains(t, buf.String(), "<div>notice</div>")

	buf.Reset()

	err = printDowngrade(&buf, &release.DowngradeCheck{Installed: "6.4"}, false)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "offered:   <none>")
}
