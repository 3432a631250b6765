// Package render turns Markdown into HTML for the admin screens and into
// styled text for the terminal.
package render
