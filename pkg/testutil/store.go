package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// StoreEnv is a temporary store holding test packages and an output path
type StoreEnv struct {
	Root     string // Temporary root directory
	StoreDir string // Directory holding package outputs
	OutDir   string // Output directory (not created)

	t *testing.T
}

// NewStoreEnv creates an empty store under a fresh temporary directory
func NewStoreEnv(t *testing.T) *StoreEnv {
	t.Helper()

	root := t.TempDir()
	env := &StoreEnv{
		Root:     root,
		StoreDir: filepath.Join(root, "store"),
		OutDir:   filepath.Join(root, "out"),
		t:        t,
	}
	require.NoError(t, os.MkdirAll(env.StoreDir, 0755))
	return env
}

// CreatePackage creates an empty package directory in the store
func (e *StoreEnv) CreatePackage(name string) string {
	e.t.Helper()

	dir := filepath.Join(e.StoreDir, name)
	require.NoError(e.t, os.MkdirAll(dir, 0755))
	return dir
}

// AddFile writes a file below pkg, creating parent directories
func (e *StoreEnv) AddFile(pkg, rel, content string) string {
	e.t.Helper()

	path := filepath.Join(pkg, rel)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// AddFileWithPerms writes a file and sets its mode explicitly
func (e *StoreEnv) AddFileWithPerms(pkg, rel, content string, mode os.FileMode) string {
	e.t.Helper()

	path := e.AddFile(pkg, rel, content)
	require.NoError(e.t, os.Chmod(path, mode))
	return path
}

// AddDir creates a directory below pkg
func (e *StoreEnv) AddDir(pkg, rel string) string {
	e.t.Helper()

	path := filepath.Join(pkg, rel)
	require.NoError(e.t, os.MkdirAll(path, 0755))
	return path
}

// AddSymlink creates a symlink below pkg pointing at target
func (e *StoreEnv) AddSymlink(pkg, rel, target string) string {
	e.t.Helper()

	path := filepath.Join(pkg, rel)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.Symlink(target, path))
	return path
}

// AddPropagated writes pkg's propagated-user-env-packages list
func (e *StoreEnv) AddPropagated(pkg string, deps ...string) {
	e.t.Helper()
	e.AddFile(pkg, "nix-support/propagated-user-env-packages", strings.Join(deps, " "))
}

// PackagesJSON renders the package list payload for the given
// (path, priority) pairs
func (e *StoreEnv) PackagesJSON(pkgs ...PackageSpec) string {
	e.t.Helper()

	type doc struct {
		Paths    []string `json:"paths"`
		Priority int      `json:"priority"`
	}
	docs := make([]doc, 0, len(pkgs))
	for _, p := range pkgs {
		docs = append(docs, doc{Paths: []string{p.Path}, Priority: p.Priority})
	}
	data, err := json.Marshal(docs)
	require.NoError(e.t, err)
	return string(data)
}

// WriteFile writes a file relative to the temporary root, outside the store
func (e *StoreEnv) WriteFile(name, content string) string {
	e.t.Helper()

	path := filepath.Join(e.Root, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// OutPath returns the absolute path of rel inside the output directory
func (e *StoreEnv) OutPath(rel string) string {
	return filepath.Join(e.OutDir, strings.TrimPrefix(rel, "/"))
}

// PackageSpec is a package path with its priority
type PackageSpec struct {
	Path     string
	Priority int
}

// Pkg is shorthand for a PackageSpec
func Pkg(path string, priority int) PackageSpec {
	return PackageSpec{Path: path, Priority: priority}
}
