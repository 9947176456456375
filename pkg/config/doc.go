// Package config handles configuration management for buildenv.
// It layers built-in defaults, an optional TOML file, the builder's
// environment variables and command-line overrides into a single Config.
package config
