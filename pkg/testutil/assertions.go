package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertSymlink checks that path is a symlink pointing at target
func AssertSymlink(t *testing.T, path, target string) bool {
	t.Helper()

	got, err := os.Readlink(path)
	if !assert.NoError(t, err, "expected a symlink at %s", path) {
		return false
	}
	return assert.Equal(t, target, got, "symlink %s points elsewhere", path)
}

// AssertDir checks that path is a real directory, not a link to one
func AssertDir(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Lstat(path)
	if !assert.NoError(t, err, "expected a directory at %s", path) {
		return false
	}
	return assert.True(t, info.IsDir(), "%s is not a directory", path)
}

// AssertNotExists checks that nothing, not even a broken link, is at path
func AssertNotExists(t *testing.T, path string) bool {
	t.Helper()

	_, err := os.Lstat(path)
	return assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}
