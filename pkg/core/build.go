package core

import (
	"github.com/arthur-debert/buildenv/pkg/config"
	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/executor"
	"github.com/arthur-debert/buildenv/pkg/filesystem"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/matchers"
	"github.com/arthur-debert/buildenv/pkg/packages"
	"github.com/arthur-debert/buildenv/pkg/plan"
	"github.com/arthur-debert/buildenv/pkg/planner"
	"github.com/arthur-debert/buildenv/pkg/types"
)

// Options controls a build run
type Options struct {
	// FS defaults to the OS file system
	FS types.FS
	// DryRun plans and logs operations without writing anything
	DryRun bool
	// Reporter, when set, receives every warning as it happens
	Reporter types.Reporter
}

// Result describes a finished (or planned) build
type Result struct {
	// Links is the number of symlinks created, or that would be created
	Links int
	// Warnings are the non-fatal conditions, in the order they were found
	Warnings []types.Warning
	// Plan is the merged plan
	Plan *plan.Plan
	// Operations are the file system operations derived from the plan
	Operations []types.Operation
}

// Build plans the environment described by cfg and writes it out. On
// failure the returned Result still carries the warnings reported so far.
func Build(cfg *config.Config, opts Options) (*Result, error) {
	logger := logging.GetLogger("core.build")
	defer logging.LogOperationStart(logger, "build")()

	result, r, err := buildPlan(cfg, opts)
	if err != nil {
		return result, err
	}

	ex := executor.New(executor.Options{
		FS:     r.fs,
		DryRun: opts.DryRun,
		Logger: logging.GetLogger("executor"),
	})
	result.Operations = ex.Operations(result.Plan, r.matcher, cfg.Out, cfg.ExtraPrefix)

	links, err := ex.Apply(result.Operations, cfg.Out)
	result.Links = links
	if err != nil {
		return result, err
	}

	if err := ex.LinkManifest(cfg.Out, cfg.Manifest); err != nil {
		return result, err
	}

	logger.Info().
		Int("links", links).
		Int("warnings", len(result.Warnings)).
		Bool("dry_run", opts.DryRun).
		Msg("Environment built")

	return result, nil
}

// PlanOnly runs every planning step of Build and stops before writing
// anything. Links counts the symlinks the plan would create.
func PlanOnly(cfg *config.Config, opts Options) (*Result, error) {
	result, r, err := buildPlan(cfg, opts)
	if err != nil {
		return result, err
	}

	ex := executor.New(executor.Options{
		FS:     r.fs,
		DryRun: true,
		Logger: logging.GetLogger("executor"),
	})
	result.Operations = ex.Operations(result.Plan, r.matcher, cfg.Out, cfg.ExtraPrefix)
	for _, op := range result.Operations {
		if op.Type == types.OperationCreateSymlink {
			result.Links++
		}
	}
	return result, nil
}

// run holds what buildPlan set up for the materialization step
type run struct {
	fs      types.FS
	matcher *matchers.PathsToLink
}

func buildPlan(cfg *config.Config, opts Options) (*Result, *run, error) {
	logger := logging.GetLogger("core.plan")
	result := &Result{}

	if err := cfg.Validate(); err != nil {
		return result, nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	excludes, err := matchers.NewExcludes(cfg.ExcludePaths)
	if err != nil {
		return result, nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid exclude pattern").
			WithDetail("patterns", cfg.ExcludePaths)
	}
	matcher := matchers.NewPathsToLink(cfg.PathsToLink)

	pkgs, err := packages.Load(fsys, cfg)
	if err != nil {
		return result, nil, err
	}

	collector := logging.NewWarningCollector(logger)
	var reporter types.Reporter = collector
	if opts.Reporter != nil {
		reporter = teeReporter{collector, opts.Reporter}
	}
	defer func() { result.Warnings = collector.Warnings() }()

	pl := planner.New(planner.Options{
		FS:                      fsys,
		Matcher:                 matcher,
		Excludes:                excludes,
		Reporter:                reporter,
		StoreDir:                cfg.StoreDir,
		OutputDisplay:           cfg.OutputDisplay(),
		IgnoreCollisions:        cfg.IgnoreCollisions,
		CheckCollisionContents:  cfg.CheckCollisionContents,
		IgnoreSingleFileOutputs: cfg.IgnoreSingleFileOutputs,
	})
	result.Plan = pl.Plan()

	logger.Debug().Int("packages", len(pkgs)).Msg("Folding explicit packages")
	for _, pkg := range pkgs {
		for _, root := range pkg.Paths {
			if _, err := fsys.Stat(root); err != nil {
				logger.Debug().Str("package", root).Msg("Package path does not exist, skipping")
				continue
			}
			if err := pl.AddPackage(root, pkg.Priority); err != nil {
				return result, nil, err
			}
		}
	}

	if err := pl.FoldPropagated(); err != nil {
		return result, nil, err
	}

	if cfg.ExtraPathsFrom != "" {
		roots, err := packages.ReadExtraPaths(fsys, cfg.ExtraPathsFrom)
		if err != nil {
			return result, nil, err
		}
		logger.Debug().Int("packages", len(roots)).Msg("Folding extra paths")
		for _, root := range roots {
			if err := pl.AddPackage(root, types.ExtraPathsPriority); err != nil {
				return result, nil, err
			}
		}
	}

	logger.Debug().
		Int("entries", result.Plan.Len()).
		Int("leaves", result.Plan.Leaves()).
		Msg("Plan complete")

	return result, &run{fs: fsys, matcher: matcher}, nil
}

// teeReporter forwards each warning to several reporters
type teeReporter []types.Reporter

func (t teeReporter) Warn(w types.Warning) {
	for _, r := range t {
		r.Warn(w)
	}
}
