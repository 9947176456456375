package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS(t *testing.T) {
	fs := NewMemoryFS()

	require.NoError(t, fs.MkdirAll("/out/bin", 0755))
	info, err := fs.Stat("/out/bin")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, fs.Symlink("/store/pkg/bin/hello", "/out/bin/hello"))
	target, err := fs.Readlink("/out/bin/hello")
	require.NoError(t, err)
	assert.Equal(t, "/store/pkg/bin/hello", target)

	// A second link at the same path is refused
	assert.Error(t, fs.Symlink("/elsewhere", "/out/bin/hello"))

	entries, err := fs.ReadDir("/out/bin")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Name())

	_, err = fs.ReadFile("/out/bin")
	assert.Error(t, err, "reading a directory should fail")

	resolved, err := fs.EvalSymlinks("/out/bin/../bin")
	require.NoError(t, err)
	assert.Equal(t, "/out/bin", resolved)
}
