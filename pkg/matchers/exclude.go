package matchers

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IsStaticallyExcluded reports whether rel is never linked into an
// environment, whatever its priority. base is the last path component.
func IsStaticallyExcluded(rel, base string) bool {
	switch {
	case rel == "/propagated-build-inputs", rel == "/nix-support":
		return true
	case strings.HasSuffix(rel, "/info/dir"):
		return true
	case strings.HasPrefix(rel, "/share/mime/") && !strings.HasPrefix(rel, "/share/mime/packages"):
		return true
	case base == "perllocal.pod", base == "log":
		return true
	}
	return false
}

// Excludes matches relative paths against user supplied doublestar globs.
// Patterns are matched without the leading slash, so "share/doc/**"
// excludes everything below /share/doc.
type Excludes struct {
	patterns []string
}

// NewExcludes validates the patterns. A nil result matches nothing.
func NewExcludes(patterns []string) (*Excludes, error) {
	e := &Excludes{}
	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		e.patterns = append(e.patterns, p)
	}
	return e, nil
}

// Match reports whether rel matches one of the patterns
func (e *Excludes) Match(rel string) bool {
	if e == nil || rel == "" {
		return false
	}
	name := strings.TrimPrefix(rel, "/")
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Len returns the number of active patterns
func (e *Excludes) Len() int {
	if e == nil {
		return 0
	}
	return len(e.patterns)
}
