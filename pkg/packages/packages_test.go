package packages_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/buildenv/pkg/config"
	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/filesystem"
	"github.com/arthur-debert/buildenv/pkg/packages"
	"github.com/arthur-debert/buildenv/pkg/testutil"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []types.Package
		wantErr  bool
	}{
		{
			name:    "single package",
			payload: `[{"paths": ["/store/a"], "priority": 5}]`,
			expected: []types.Package{
				{Paths: []string{"/store/a"}, Priority: 5},
			},
		},
		{
			name:    "missing priority defaults to zero",
			payload: `[{"paths": ["/store/a", "/store/a-man"]}]`,
			expected: []types.Package{
				{Paths: []string{"/store/a", "/store/a-man"}, Priority: 0},
			},
		},
		{
			name:    "fractional priority is truncated",
			payload: `[{"paths": ["/store/a"], "priority": 7.9}, {"paths": [], "priority": -2.5}]`,
			expected: []types.Package{
				{Paths: []string{"/store/a"}, Priority: 7},
				{Paths: []string{}, Priority: -2},
			},
		},
		{
			name:     "empty list",
			payload:  `[]`,
			expected: []types.Package{},
		},
		{name: "not json", payload: `not json`, wantErr: true},
		{name: "not an array", payload: `{"paths": []}`, wantErr: true},
		{name: "missing paths", payload: `[{"priority": 1}]`, wantErr: true},
		{name: "paths not strings", payload: `[{"paths": [1, 2]}]`, wantErr: true},
		{name: "priority not a number", payload: `[{"paths": [], "priority": "high"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs, err := packages.Parse([]byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrPackageList))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pkgs)
		})
	}
}

func TestParseYAML(t *testing.T) {
	pkgs, err := packages.ParseYAML([]byte(`
- paths: [/store/a]
  priority: 10
- paths:
    - /store/b
    - /store/b-bin
`))
	require.NoError(t, err)
	assert.Equal(t, []types.Package{
		{Paths: []string{"/store/a"}, Priority: 10},
		{Paths: []string{"/store/b", "/store/b-bin"}, Priority: 0},
	}, pkgs)

	_, err = packages.ParseYAML([]byte(`- priority: 1`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageList))
}

func TestLoad(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	fsys := filesystem.NewOS()

	t.Run("inline payload", func(t *testing.T) {
		pkgs, err := packages.Load(fsys, &config.Config{Pkgs: `[{"paths": ["/store/inline"]}]`})
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, []string{"/store/inline"}, pkgs[0].Paths)
	})

	t.Run("file wins over inline payload", func(t *testing.T) {
		path := env.WriteFile("pkgs.json", `[{"paths": ["/store/file"], "priority": 3}]`)
		pkgs, err := packages.Load(fsys, &config.Config{
			Pkgs:     `[{"paths": ["/store/inline"]}]`,
			PkgsPath: path,
		})
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, []string{"/store/file"}, pkgs[0].Paths)
		assert.Equal(t, 3, pkgs[0].Priority)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := env.WriteFile("pkgs.yaml", "- paths: [/store/yaml]\n  priority: 4\n")
		pkgs, err := packages.Load(fsys, &config.Config{PkgsPath: path})
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, 4, pkgs[0].Priority)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := packages.Load(fsys, &config.Config{PkgsPath: filepath.Join(env.Root, "missing.json")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})

	t.Run("nothing supplied", func(t *testing.T) {
		_, err := packages.Load(fsys, &config.Config{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoPackages))
		assert.Contains(t, err.Error(), "No packages specified")
	})
}

func TestReadExtraPaths(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	fsys := filesystem.NewOS()

	extra1 := env.CreatePackage("extra1")
	extra2 := env.CreatePackage("extra2")
	file := env.WriteFile("not-a-dir", "x")
	listing := env.WriteFile("extra-paths", "  "+extra1+"  \n\n"+filepath.Join(env.StoreDir, "missing")+"\n"+file+"\n"+extra2)

	roots, err := packages.ReadExtraPaths(fsys, listing)
	require.NoError(t, err)
	assert.Equal(t, []string{extra1, extra2}, roots)

	_, err = packages.ReadExtraPaths(fsys, filepath.Join(env.Root, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestReadPropagated(t *testing.T) {
	env := testutil.NewStoreEnv(t)
	fsys := filesystem.NewOS()

	pkg := env.CreatePackage("pkg")
	roots, err := packages.ReadPropagated(fsys, pkg)
	require.NoError(t, err)
	assert.Nil(t, roots)

	env.AddFile(pkg, packages.PropagatedFile, "/store/dep1\n  /store/dep2\t/store/dep3\n")
	roots, err = packages.ReadPropagated(fsys, pkg)
	require.NoError(t, err)
	assert.Equal(t, []string{"/store/dep1", "/store/dep2", "/store/dep3"}, roots)
}

func TestReadPropagated_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	env := testutil.NewStoreEnv(t)
	pkg := env.CreatePackage("pkg")
	env.AddFileWithPerms(pkg, packages.PropagatedFile, "/store/dep", 0000)

	_, err := packages.ReadPropagated(filesystem.NewOS(), pkg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}
