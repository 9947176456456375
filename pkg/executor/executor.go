package executor

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/filesystem"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/matchers"
	"github.com/arthur-debert/buildenv/pkg/plan"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/rs/zerolog"
)

// ManifestName is the name of the manifest link at the output root
const ManifestName = "manifest"

// Options contains configuration for the executor
type Options struct {
	DryRun bool
	Logger zerolog.Logger
	// Filesystem operations interface for testing
	FS types.FS
}

// Executor writes plans to the file system
type Executor struct {
	dryRun bool
	logger zerolog.Logger
	fs     types.FS
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Executor{
		dryRun: opts.DryRun,
		logger: logger,
		fs:     fs,
	}
}

// Operations converts the wanted part of a plan into operations rooted at
// out and prefix. The output root itself is never part of the list.
func (e *Executor) Operations(p *plan.Plan, m *matchers.PathsToLink, out, prefix string) []types.Operation {
	root := filepath.Clean(out)

	var ops []types.Operation
	for _, rel := range p.Paths() {
		if !m.IsWanted(rel) {
			continue
		}
		abs := OutputPath(out, prefix, rel)

		entry := p.Get(rel)
		switch entry.Kind {
		case plan.Directory:
			if abs == root {
				continue
			}
			ops = append(ops, types.Operation{
				Type:    types.OperationCreateDir,
				Target:  abs,
				RelPath: rel,
			})
		case plan.Leaf:
			ops = append(ops, types.Operation{
				Type:    types.OperationCreateSymlink,
				Source:  entry.Target,
				Target:  abs,
				RelPath: rel,
			})
		}
	}
	return ops
}

// Realize creates the output tree for the wanted part of p and returns the
// number of symlinks created. In dry-run mode the operations are only logged
// and the count is what would have been created.
func (e *Executor) Realize(p *plan.Plan, m *matchers.PathsToLink, out, prefix string) (int, error) {
	return e.Apply(e.Operations(p, m, out, prefix), out)
}

// Apply ensures out exists and executes ops in order, returning the number
// of symlinks created.
func (e *Executor) Apply(ops []types.Operation, out string) (int, error) {
	defer logging.LogOperationStart(e.logger, "materialize")()

	e.logger.Debug().
		Str("out", out).
		Int("operations", len(ops)).
		Bool("dry_run", e.dryRun).
		Msg("Materializing plan")

	if !e.dryRun {
		if err := e.fs.MkdirAll(out, 0755); err != nil {
			return 0, errors.Wrapf(err, errors.ErrDirCreate, "Failed to create output directory (%s)", out).
				WithDetail("path", out)
		}
	}

	links := 0
	for _, op := range ops {
		if err := e.execute(op); err != nil {
			return links, err
		}
		if op.Type == types.OperationCreateSymlink {
			links++
		}
	}
	return links, nil
}

// LinkManifest points out/manifest at manifest. An empty manifest is a no-op.
func (e *Executor) LinkManifest(out, manifest string) error {
	if manifest == "" {
		return nil
	}
	link := filepath.Join(out, ManifestName)

	e.logger.Debug().
		Str("manifest", manifest).
		Str("link", link).
		Bool("dry_run", e.dryRun).
		Msg("Linking manifest")

	if e.dryRun {
		return nil
	}
	if err := e.fs.Symlink(manifest, link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "Failed to create manifest symlink (%s)", link).
			WithDetail("path", link)
	}
	return nil
}

func (e *Executor) execute(op types.Operation) error {
	e.logger.Trace().
		Str("type", string(op.Type)).
		Str("source", op.Source).
		Str("target", op.Target).
		Msg("Executing operation")

	if e.dryRun {
		return nil
	}

	switch op.Type {
	case types.OperationCreateDir:
		if err := e.fs.MkdirAll(op.Target, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "Cannot create directory (%s)", op.Target).
				WithDetail("path", op.Target)
		}
	case types.OperationCreateSymlink:
		parent := filepath.Dir(op.Target)
		if err := e.fs.MkdirAll(parent, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "Failed to create parent directory (%s)", parent).
				WithDetail("path", parent)
		}
		if err := e.fs.Symlink(op.Source, op.Target); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "Error creating symlink (%s)", op.Target).
				WithDetail("path", op.Target).
				WithDetail("source", op.Source)
		}
	default:
		return errors.Newf(errors.ErrInternal, "unknown operation type %q", op.Type)
	}
	return nil
}

// OutputPath joins the output root, the extra prefix and a relative path
func OutputPath(out, prefix, rel string) string {
	return filepath.Join(out, strings.TrimPrefix(prefix, "/"), strings.TrimPrefix(rel, "/"))
}
