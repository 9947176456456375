package planner

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/buildenv/pkg/collision"
	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/matchers"
	"github.com/arthur-debert/buildenv/pkg/packages"
	"github.com/arthur-debert/buildenv/pkg/plan"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Planner
type Options struct {
	FS       types.FS
	Matcher  *matchers.PathsToLink
	Excludes *matchers.Excludes
	Reporter types.Reporter

	// StoreDir is the directory whose immediate children are store paths
	StoreDir string
	// OutputDisplay prefixes relative paths in dangling symlink warnings
	OutputDisplay string

	IgnoreCollisions        bool
	CheckCollisionContents  bool
	IgnoreSingleFileOutputs bool
}

// Planner owns the plan and the bookkeeping of which packages were folded.
// It is not safe for concurrent use.
type Planner struct {
	opts     Options
	fs       types.FS
	matcher  *matchers.PathsToLink
	reporter types.Reporter
	resolver *collision.Resolver
	logger   zerolog.Logger

	plan      *plan.Plan
	done      map[string]bool
	postponed []string
	queued    map[string]bool

	ignoreCollisions bool
}

// New creates a planner with a plan seeded from the paths to link
func New(opts Options) *Planner {
	logger := logging.GetLogger("planner")

	reporter := opts.Reporter
	if reporter == nil {
		reporter = logging.NewWarningCollector(logger)
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = matchers.NewPathsToLink([]string{"/"})
	}

	return &Planner{
		opts:             opts,
		fs:               opts.FS,
		matcher:          matcher,
		reporter:         reporter,
		resolver:         collision.NewResolver(opts.FS, reporter),
		logger:           logger,
		plan:             plan.New(matcher.Ancestors()),
		done:             make(map[string]bool),
		queued:           make(map[string]bool),
		ignoreCollisions: opts.IgnoreCollisions,
	}
}

// Plan returns the plan built so far
func (p *Planner) Plan() *plan.Plan {
	return p.plan
}

// Done reports whether root has already been folded
func (p *Planner) Done(root string) bool {
	return p.done[root]
}

// Postponed returns the propagated package roots waiting to be folded, in
// discovery order
func (p *Planner) Postponed() []string {
	out := make([]string, len(p.postponed))
	copy(out, p.postponed)
	return out
}

// AddPackage folds the package at root into the plan with priority prio,
// then queues the packages it propagates. A root that was already folded is
// ignored.
func (p *Planner) AddPackage(root string, prio int) error {
	if p.done[root] {
		p.logger.Trace().Str("package", root).Msg("Package already folded")
		return nil
	}
	p.done[root] = true

	p.logger.Debug().
		Str("package", root).
		Int("priority", prio).
		Msg("Folding package")

	if err := p.FoldPackage("", root, prio); err != nil {
		return err
	}

	propagated, err := packages.ReadPropagated(p.fs, root)
	if err != nil {
		return err
	}
	for _, dep := range propagated {
		if p.done[dep] || p.queued[dep] {
			continue
		}
		p.logger.Debug().
			Str("package", root).
			Str("propagated", dep).
			Msg("Queueing propagated package")
		p.queued[dep] = true
		p.postponed = append(p.postponed, dep)
	}
	return nil
}

// FoldPackage folds the file system object target into the plan at the
// relative path rel, recursing into directories.
func (p *Planner) FoldPackage(rel, target string, prio int) error {
	info, statErr := p.fs.Stat(target)
	isDir := statErr == nil && info.IsDir()

	if statErr == nil && info.Mode().IsRegular() && p.isStorePath(target) {
		if p.opts.IgnoreSingleFileOutputs {
			p.reporter.Warn(types.Warning{
				Kind:    types.WarningSingleFileOutput,
				Message: fmt.Sprintf("The store path %s is a file and can't be merged into an environment using pkgs.buildEnv", target),
				Paths:   []string{target},
			})
			return nil
		}
		return errors.Newf(errors.ErrStorePathIsFile,
			"The store path %s is a file and can't be merged into an environment using pkgs.buildEnv!", target).
			WithDetail("path", target)
	}

	if p.skip(rel) {
		return nil
	}

	old := p.plan.Get(rel)
	oldIsDir := old.IsDir() || (old.IsLeaf() && p.isDir(old.Target))

	// A seeded directory below the root is only a marker and holds no
	// target, so a non-directory takes it over like an absent path.
	vacant := old.IsNone() || (old.IsSeeded() && rel != "")

	// New path, or a better candidate for a path linking a non-directory
	if !isDir && (vacant || (old.IsLeaf() && !oldIsDir && prio < old.Priority)) {
		p.warnIfDangling(rel, target)
		p.plan.Set(rel, plan.Link(target, prio))
		return nil
	}

	if old.IsLeaf() && p.sameObject(old.Target, target) {
		if p.isSymlink(old.Target) && !p.isSymlink(target) {
			p.plan.Set(rel, plan.Link(target, prio))
		}
		return nil
	}

	if old.IsLeaf() && !oldIsDir && prio > old.Priority {
		return nil
	}

	// Only the root can still be seeded here and it must stay a directory
	if old.IsSeeded() && !isDir {
		return errors.Newf(errors.ErrNotADirectory, "not a directory: `%s''", target).
			WithDetail("path", target).
			WithDetail("rel", rel)
	}

	if !isDir || (!old.IsNone() && !oldIsDir) {
		return p.collide(rel, old, target)
	}

	if old.IsLeaf() {
		if err := p.foldDir(rel, old.Target, old.Priority); err != nil {
			return err
		}
	}
	if err := p.foldDir(rel, target, prio); err != nil {
		return err
	}
	p.plan.Set(rel, plan.Dir(prio, target))
	return nil
}

func (p *Planner) foldDir(rel, dir string, prio int) error {
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "Failed to read directory (%s)", dir).
			WithDetail("path", dir)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if err := p.FoldPackage(rel+"/"+name, filepath.Join(dir, name), prio); err != nil {
			return err
		}
	}
	return nil
}

// collide settles a clash between the current entry and target
func (p *Planner) collide(rel string, old plan.Entry, target string) error {
	oldPath := old.Target
	if old.IsDir() {
		oldPath = old.Source
	}
	newRef := p.resolver.Describe(target)
	oldRef := p.resolver.Describe(oldPath)

	if p.ignoreCollisions {
		p.reporter.Warn(types.Warning{
			Kind:    types.WarningCollisionIgnored,
			Message: fmt.Sprintf("collision between %s and %s", newRef, oldRef),
			Paths:   []string{target, oldPath},
		})
		return nil
	}

	if p.opts.CheckCollisionContents {
		same, err := p.resolver.Equivalent(oldPath, target)
		if err != nil {
			return err
		}
		if same {
			p.logger.Trace().
				Str("rel", rel).
				Str("kept", oldPath).
				Str("dropped", target).
				Msg("Colliding objects are identical")
			return nil
		}
	}

	return errors.Newf(errors.ErrCollision, "collision between %s and %s", oldRef, newRef).
		WithDetail("rel", rel).
		WithDetail("old", oldPath).
		WithDetail("new", target)
}

// skip reports whether rel is excluded or outside the paths to link
func (p *Planner) skip(rel string) bool {
	base := ""
	if rel != "" {
		base = filepath.Base(rel)
	}
	if matchers.IsStaticallyExcluded(rel, base) || p.opts.Excludes.Match(rel) {
		p.logger.Trace().Str("rel", rel).Msg("Path excluded")
		return true
	}
	return !p.matcher.Visit(rel)
}

func (p *Planner) warnIfDangling(rel, target string) {
	if !p.isSymlink(target) {
		return
	}
	if _, err := p.fs.Stat(target); err == nil {
		return
	}
	link, err := p.fs.Readlink(target)
	if err != nil {
		return
	}
	p.reporter.Warn(types.Warning{
		Kind: types.WarningDanglingSymlink,
		Message: fmt.Sprintf("creating dangling symlink `%s%s' -> `%s' -> `%s'",
			p.opts.OutputDisplay, rel, target, link),
		Paths: []string{target},
	})
}

// isStorePath reports whether path is an immediate child of the store
func (p *Planner) isStorePath(path string) bool {
	return filepath.IsAbs(path) && filepath.Dir(path) == filepath.Clean(p.opts.StoreDir)
}

func (p *Planner) isDir(path string) bool {
	info, err := p.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (p *Planner) isSymlink(path string) bool {
	info, err := p.fs.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// sameObject reports whether a and b resolve to the same file
func (p *Planner) sameObject(a, b string) bool {
	resolvedA, err := p.fs.EvalSymlinks(a)
	if err != nil {
		return false
	}
	resolvedB, err := p.fs.EvalSymlinks(b)
	if err != nil {
		return false
	}
	return resolvedA == resolvedB
}
