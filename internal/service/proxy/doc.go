// Package proxy intercepts core version-check requests and rewrites them so
// that the update server answers for the configured release channel.
//
// Interceptor is an http.RoundTripper that touches exactly one endpoint;
// Run serves a reverse proxy in front of the WordPress.org API using it.
package proxy
