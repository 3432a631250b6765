// Package release contains the version arithmetic used to steer WordPress
// core update checks onto another release channel.
//
// It defines Version (a parsed major.minor[.patch][-suffix] string), the
// Stream and Selection types persisted by the option store, and the pure
// functions RequestVersion and IsConfiguredDowngrade.
package release
