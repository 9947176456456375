package matchers

import (
	"sort"
	"strings"
)

// PathsToLink answers whether a relative path was requested, directly or
// through one of its ancestors.
type PathsToLink struct {
	paths []string
	all   bool
}

// NewPathsToLink normalizes the configured paths. "/" requests everything.
func NewPathsToLink(paths []string) *PathsToLink {
	m := &PathsToLink{}
	for _, p := range paths {
		n := Normalize(p)
		if n == "" {
			m.all = true
			n = "/"
		}
		m.paths = append(m.paths, n)
	}
	return m
}

// Normalize turns a configured or relative path into plan form: leading
// slash, no trailing slash, "" for the root.
func Normalize(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Paths returns the normalized configured paths
func (m *PathsToLink) Paths() []string {
	return m.paths
}

// IsWanted reports whether rel is a requested path or lies below one.
func (m *PathsToLink) IsWanted(rel string) bool {
	if m.all {
		return true
	}
	if rel == "" {
		rel = "/"
	}
	for _, p := range m.paths {
		if isUnder(rel, p) {
			return true
		}
	}
	return false
}

// IsOnPathToWanted reports whether rel is the root or an ancestor of (or
// equal to) a requested path, so the walk has to keep descending.
func (m *PathsToLink) IsOnPathToWanted(rel string) bool {
	if rel == "" {
		return true
	}
	for _, p := range m.paths {
		if isUnder(p, rel) {
			return true
		}
	}
	return false
}

// Visit reports whether a walk should look at rel at all.
func (m *PathsToLink) Visit(rel string) bool {
	return m.IsOnPathToWanted(rel) || m.IsWanted(rel)
}

// Ancestors returns every requested path together with all its ancestors,
// sorted, without the root.
func (m *PathsToLink) Ancestors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.paths {
		cur := ""
		for _, part := range strings.Split(p, "/") {
			if part == "" {
				continue
			}
			cur += "/" + part
			if !seen[cur] {
				seen[cur] = true
				out = append(out, cur)
			}
		}
	}
	sort.Strings(out)
	return out
}

// isUnder reports whether path equals prefix or is a descendant of it,
// comparing whole components.
func isUnder(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
