// Package matchers decides which relative paths of a package tree take part
// in an environment: the configured paths-to-link, the fixed exclusion list
// and optional user exclusion globs.
//
// Relative paths use the plan convention: "" is the package root, every
// other path starts with "/" and has no trailing slash.
package matchers
