// Package planner folds package output trees into a plan.
//
// Each package root is walked depth first. Every entry is matched against
// the paths to link and the exclusion rules, then weighed against whatever
// the plan already holds for its relative path: lower priorities win, equal
// objects merge silently, directories from several packages become merge
// points and anything else is a collision.
//
// Packages named in a folded package's propagated-user-env-packages file are
// queued and folded afterwards by FoldPropagated, at priorities starting from
// 1000 and with collisions ignored.
//
// The planner never writes to the file system. Materializing the plan is
// the executor's job.
package planner
