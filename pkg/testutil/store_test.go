package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreEnv(t *testing.T) {
	env := NewStoreEnv(t)

	pkg := env.CreatePackage("pkg1")
	assert.Equal(t, filepath.Join(env.StoreDir, "pkg1"), pkg)

	file := env.AddFileWithPerms(pkg, "bin/app", "#!/bin/sh", 0755)
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	link := env.AddSymlink(pkg, "bin/alias", "app")
	AssertSymlink(t, link, "app")

	env.AddPropagated(pkg, "/store/a", "/store/b")
	content, err := os.ReadFile(filepath.Join(pkg, "nix-support", "propagated-user-env-packages"))
	require.NoError(t, err)
	assert.Equal(t, "/store/a /store/b", string(content))

	AssertDir(t, env.AddDir(pkg, "share/empty"))
	AssertNotExists(t, env.OutDir)
	assert.Equal(t, filepath.Join(env.OutDir, "bin", "app"), env.OutPath("/bin/app"))
}

func TestPackagesJSON(t *testing.T) {
	env := NewStoreEnv(t)

	payload := env.PackagesJSON(Pkg("/store/a", 10), Pkg("/store/b", 5))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []interface{}{"/store/a"}, decoded[0]["paths"])
	assert.Equal(t, float64(5), decoded[1]["priority"])
}
