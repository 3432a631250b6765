// Package client implements the wpbt commands that talk to wpbt-server:
// reading and changing the stream settings, showing the version sent in
// update checks and checking for a configured downgrade.
package client
