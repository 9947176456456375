// Package core implements the build pipeline for buildenv.
// It ties the pieces together in the order the builder runs them:
//
//  1. Load the package list
//  2. Fold every explicit package, in list order
//  3. Fold the propagated packages (propagation closure)
//  4. Fold the packages named in the extra paths file, at priority 1000
//  5. Materialize the plan under the output directory
//  6. Link the manifest
//
// # Collisions
//
// When two packages provide the same relative path, the lower priority
// number wins. Equal priorities collide: the build fails unless collisions
// are ignored or both objects turn out to be identical (same permission
// bits and, for regular files, the same bytes). Directories provided by
// several packages are merged rather than linked.
//
// Propagated packages never fail the build on a collision; the first
// folded object is kept and a warning is reported.
//
// # Failures
//
// Any fatal error aborts the run before anything is written: the output
// tree is only created once planning has completed. Errors are
// *errors.BuildError values whose code tells the CLI which exit code to use.
package core
