// Package updatecore caches the last core version-check response on disk,
// the counterpart of the update_core site transient.
package updatecore
