package types

import (
	"io/fs"
)

// FS is the filesystem interface required for buildenv operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	Open(name string) (fs.File, error)

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// EvalSymlinks returns the absolute path name after resolving every
	// symbolic link. It fails when the final target does not exist.
	EvalSymlinks(path string) (string, error)
}

// Reporter receives the non-fatal conditions found while building an
// environment.
type Reporter interface {
	Warn(w Warning)
}
