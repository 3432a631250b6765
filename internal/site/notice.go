package site

import (
	"bytes"
	"html/template"
)

// downgradeNoticeTemplate is the warning shown when the configured stream
// would take the install back to an earlier release.
var downgradeNoticeTemplate = template.Must(template.New("downgrade").Parse(
	`<div id="message" class="notice notice-warning"><p>` +
		`<strong>Warning:</strong> Your current <a href="{{.}}">WordPress Beta Tester plugin configuration</a> ` +
		`will downgrade your install to a previous version - please reconfigure it.` +
		`</p></div>`,
))

// DowngradeNotice renders the downgrade warning linking to the settings tab.
func (l Links) DowngradeNotice() (string, error) {
	var buf bytes.Buffer

	if err := downgradeNoticeTemplate.Execute(&buf, l.SettingsURL(TabCore)); err != nil {
		return "", err
	}

	return buf.String(), nil
}
