package collision_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/buildenv/pkg/collision"
	"github.com/arthur-debert/buildenv/pkg/filesystem"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/testutil"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver() (*collision.Resolver, *logging.WarningCollector) {
	warnings := logging.NewWarningCollector(zerolog.Nop())
	return collision.NewResolver(filesystem.NewOS(), warnings), warnings
}

func TestEquivalent(t *testing.T) {
	large := strings.Repeat("0123456789abcdef", 8192)

	tests := []struct {
		name     string
		contentA string
		contentB string
		modeA    os.FileMode
		modeB    os.FileMode
		expected bool
		warnings int
	}{
		{
			name:     "identical files",
			contentA: "same content",
			contentB: "same content",
			modeA:    0644,
			modeB:    0644,
			expected: true,
		},
		{
			name:     "different content with same size",
			contentA: "content a",
			contentB: "content b",
			modeA:    0644,
			modeB:    0644,
			expected: false,
		},
		{
			name:     "different sizes",
			contentA: "short",
			contentB: "much longer",
			modeA:    0644,
			modeB:    0644,
			expected: false,
		},
		{
			name:     "empty files",
			modeA:    0644,
			modeB:    0644,
			expected: true,
		},
		{
			name:     "identical files spanning several chunks",
			contentA: large,
			contentB: large,
			modeA:    0644,
			modeB:    0644,
			expected: true,
		},
		{
			name:     "files differing in the last chunk",
			contentA: large + "x",
			contentB: large + "y",
			modeA:    0644,
			modeB:    0644,
			expected: false,
		},
		{
			name:     "same content different permissions",
			contentA: "same content",
			contentB: "same content",
			modeA:    0644,
			modeB:    0755,
			expected: false,
			warnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewStoreEnv(t)
			pkgA := env.CreatePackage("a")
			pkgB := env.CreatePackage("b")
			a := env.AddFileWithPerms(pkgA, "file", tt.contentA, tt.modeA)
			b := env.AddFileWithPerms(pkgB, "file", tt.contentB, tt.modeB)

			resolver, warnings := newResolver()
			same, err := resolver.Equivalent(a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, same)
			assert.Equal(t, tt.warnings, warnings.Count(types.WarningPermissions))
		})
	}
}

func TestEquivalent_PermissionWarningMessage(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	a := env.AddFileWithPerms(env.CreatePackage("a"), "bin/tool", "x", 0644)
	b := env.AddFileWithPerms(env.CreatePackage("b"), "bin/tool", "x", 0755)

	resolver, warnings := newResolver()
	same, err := resolver.Equivalent(a, b)
	require.NoError(t, err)
	assert.False(t, same)

	require.Len(t, warnings.Warnings(), 1)
	w := warnings.Warnings()[0]
	assert.Equal(t, "different permissions in `"+a+"' and `"+b+"': 0644 <-> 0755", w.Message)
	assert.Equal(t, []string{a, b}, w.Paths)
}

func TestEquivalent_MissingPath(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	a := env.AddFile(env.CreatePackage("a"), "file", "content")
	missing := filepath.Join(env.StoreDir, "b", "file")

	resolver, warnings := newResolver()

	same, err := resolver.Equivalent(a, missing)
	require.NoError(t, err)
	assert.False(t, same)

	same, err = resolver.Equivalent(missing, a)
	require.NoError(t, err)
	assert.False(t, same)

	assert.Empty(t, warnings.Warnings())
}

func TestEquivalent_FollowsSymlinks(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	pkgA := env.CreatePackage("a")
	pkgB := env.CreatePackage("b")
	target := env.AddFile(pkgA, "real", "shared")
	link := env.AddSymlink(pkgA, "link", target)
	copyB := env.AddFile(pkgB, "link", "shared")

	resolver, _ := newResolver()
	same, err := resolver.Equivalent(link, copyB)
	require.NoError(t, err)
	assert.True(t, same)

	dangling := env.AddSymlink(pkgB, "broken", filepath.Join(env.Root, "nowhere"))
	same, err = resolver.Equivalent(link, dangling)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestEquivalent_DirectoryAgainstFile(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	pkgA := env.CreatePackage("a")
	pkgB := env.CreatePackage("b")
	dir := env.AddDir(pkgA, "thing")
	require.NoError(t, os.Chmod(dir, 0755))
	file := env.AddFileWithPerms(pkgB, "thing", "x", 0755)

	resolver, _ := newResolver()
	same, err := resolver.Equivalent(dir, file)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestEquivalent_MemoryFS(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/store/a/f", []byte("hello"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/store/b/f", []byte("hello"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/store/c/f", []byte("world"), 0644))

	resolver := collision.NewResolver(filesystem.NewAferoFS(mem), logging.NewWarningCollector(zerolog.Nop()))
	same, err := resolver.Equivalent("/store/a/f", "/store/b/f")
	require.NoError(t, err)
	assert.True(t, same)

	same, err = resolver.Equivalent("/store/a/f", "/store/c/f")
	require.NoError(t, err)
	assert.False(t, same)
}

func TestDescribe(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	pkg := env.CreatePackage("a")
	file := env.AddFile(pkg, "file", "x")
	good := env.AddSymlink(pkg, "good", file)
	dangling := env.AddSymlink(pkg, "dangling", filepath.Join(env.Root, "missing"))

	resolver, _ := newResolver()
	assert.Equal(t, "`"+file+"'", resolver.Describe(file))
	assert.Equal(t, "`"+good+"'", resolver.Describe(good))
	assert.Equal(t, "dangling symlink `"+dangling+"'", resolver.Describe(dangling))
}

func TestUnixPerm(t *testing.T) {
	assert.Equal(t, uint32(0o644), collision.UnixPerm(0o644))
	assert.Equal(t, uint32(0o4755), collision.UnixPerm(fs.ModeSetuid|0o755))
	assert.Equal(t, uint32(0o2755), collision.UnixPerm(fs.ModeSetgid|0o755))
	assert.Equal(t, uint32(0o1777), collision.UnixPerm(fs.ModeSticky|fs.ModeDir|0o777))
}
