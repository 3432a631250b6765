// Package config defines the settings used by wpbt-server and the wpbt CLI
// and provides helpers to load, validate and save them in YAML format.
//
// Values from a .env file next to the config and WPBT_* environment
// variables override what the YAML file says.
package config
