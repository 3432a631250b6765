// Package versioncheck is the update source: it performs core version checks
// against the WordPress.org API, caches the offers and answers which update
// is preferred for the install.
package versioncheck
