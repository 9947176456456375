// Package testutil provides utilities for testing buildenv components.
//
// Key components:
//   - StoreEnv: a throwaway store directory with packages, an output
//     directory and helpers to populate package trees on the real
//     filesystem
//   - Output assertions for symlinks and directories in the built tree
//
// All test data should be defined inline. Each StoreEnv lives under
// t.TempDir() and is removed when the test ends.
package testutil
