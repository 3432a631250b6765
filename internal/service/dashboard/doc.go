// Package dashboard builds the beta-testing dashboard shown while a
// pre-release of WordPress is installed: where to read about the release,
// the latest development news about it and where to report bugs.
package dashboard
