// Package settings implements the option store: persistence of the channel
// selection (stream, revert, channel, stream option) in a YAML file.
package settings
