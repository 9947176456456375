// Package collision decides whether two objects claiming the same relative
// path are interchangeable, so that linking either one gives the same
// environment.
package collision

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/types"
)

const chunkSize = 32 * 1024

// Resolver compares colliding filesystem objects
type Resolver struct {
	fs       types.FS
	reporter types.Reporter
}

// NewResolver creates a resolver reporting permission mismatches to reporter
func NewResolver(fsys types.FS, reporter types.Reporter) *Resolver {
	return &Resolver{fs: fsys, reporter: reporter}
}

// Equivalent reports whether a and b can stand in for each other.
//
// Both paths are followed through symlinks. A missing path is never
// equivalent. Permission bits (including setuid, setgid and sticky) must
// match. Regular files are compared byte for byte. Any other pair only
// needs the same file type: special files are not inspected further, so two
// distinct FIFOs or devices count as equivalent.
func (r *Resolver) Equivalent(a, b string) (bool, error) {
	infoA, errA := r.fs.Stat(a)
	infoB, errB := r.fs.Stat(b)
	if errA != nil || errB != nil {
		return false, nil
	}

	modeA := UnixPerm(infoA.Mode())
	modeB := UnixPerm(infoB.Mode())
	if modeA != modeB {
		r.reporter.Warn(types.Warning{
			Kind:    types.WarningPermissions,
			Message: fmt.Sprintf("different permissions in `%s' and `%s': %04o <-> %04o", a, b, modeA, modeB),
			Paths:   []string{a, b},
		})
		return false, nil
	}

	if infoA.Mode().IsRegular() && infoB.Mode().IsRegular() {
		if infoA.Size() != infoB.Size() {
			return false, nil
		}
		return r.sameContent(a, b)
	}

	return infoA.Mode().Type() == infoB.Mode().Type(), nil
}

// Describe renders a path for collision messages, flagging broken links.
func (r *Resolver) Describe(path string) string {
	if r.isDangling(path) {
		return fmt.Sprintf("dangling symlink `%s'", path)
	}
	return fmt.Sprintf("`%s'", path)
}

func (r *Resolver) isDangling(path string) bool {
	info, err := r.fs.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	_, err = r.fs.Stat(path)
	return err != nil
}

func (r *Resolver) sameContent(a, b string) (bool, error) {
	fa, err := r.fs.Open(a)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "Failed to read file (%s)", a)
	}
	defer fa.Close()

	fb, err := r.fs.Open(b)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "Failed to read file (%s)", b)
	}
	defer fb.Close()

	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)
		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		doneA, errA := endOfStream(errA)
		if errA != nil {
			return false, errors.Wrapf(errA, errors.ErrFileAccess, "Failed to read file (%s)", a)
		}
		doneB, errB := endOfStream(errB)
		if errB != nil {
			return false, errors.Wrapf(errB, errors.ErrFileAccess, "Failed to read file (%s)", b)
		}
		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}

// endOfStream folds the io.ReadFull end conditions into a done flag.
func endOfStream(err error) (bool, error) {
	switch err {
	case nil:
		return false, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return true, nil
	default:
		return false, err
	}
}

// UnixPerm returns the classic 12-bit unix mode (permission bits plus
// setuid, setgid and sticky) of m.
func UnixPerm(m fs.FileMode) uint32 {
	perm := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		perm |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		perm |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		perm |= 0o1000
	}
	return perm
}
