// Package checker polls wpbt-server for configured downgrades and logs a
// warning whenever the update on offer is older than the installed release.
package checker
