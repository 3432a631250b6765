package bugreport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectReports(t *testing.T) {
	t.Parallel()

	reports := Reports(testEnvironment())

	selected, err := selectReports(reports, "")
	require.NoError(t, err)
	require.Len(t, selected, 2)

	selected, err = selectReports(reports, "Wiki")
	require.NoError(t, err)
	require.Len(t, selected, 1)
	require.Equal(t, "Trac", selected[0].Target.Title)

	_, err = selectReports(reports, "bbcode")
	require.ErrorIs(t, err, errUnknownFormat)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	report := Reports(testEnvironment())[0]

	var buf bytes.Buffer

	require.NoError(t, writeReport(&buf, report, OutputText))
	require.Contains(t, buf.String(), "Trac: https://core.trac.wordpress.org/newticket\n\n=== Bug Report")

	require.ErrorIs(t, writeReport(&buf, report, "pdf"), errUnknownOutput)
}
