// Package bugreport collects the environment of a WordPress install and
// fills the bug report templates testers paste into Trac or GitHub.
package bugreport
