// Package executor materializes a plan on disk.
//
// A plan is turned into an ordered list of operations, parents before
// children: a directory for every merge point and a symlink for every leaf,
// restricted to the paths to link and rooted at the output directory plus
// the optional extra prefix. Realize performs them, or only logs them in
// dry-run mode.
package executor
