// Package ui renders buildenv results for people and for tools: warnings
// and errors on stderr, and plans as a table, plain text, JSON, YAML or
// TOML.
package ui
