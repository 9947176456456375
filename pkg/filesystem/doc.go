// Package filesystem provides filesystem implementations for buildenv.
//
// This package contains implementations of the types.FS interface:
// the OS filesystem used for real builds and an afero-backed filesystem
// used to exercise the materializer in memory.
package filesystem
