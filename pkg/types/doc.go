// Package types defines the core types and interfaces used throughout buildenv.
// This includes the FS and Reporter interfaces, as well as data structures
// like Package, Warning and Operation.
package types
