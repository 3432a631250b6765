// Package common holds helpers shared by the wpbt binaries.
//
// It provides a lightweight client for the wpbt-server admin API with call
// timeouts, and detects the current system actor (hostname/username) that
// is sent along for the audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
