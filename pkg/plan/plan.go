// Package plan holds the in-memory description of an environment before
// anything is written: for every relative path, either a directory that
// several packages merge into or a single object linked by reference.
package plan

import (
	"math"
	"sort"
	"strings"
)

// Infinity is the priority of an absent entry; it loses against anything.
const Infinity = math.MaxInt

// Kind tags a plan entry
type Kind int

const (
	// None means no package claimed the path yet
	None Kind = iota
	// Directory marks a merge point
	Directory
	// Leaf links the path to a single file, symlink or special file
	Leaf
)

// String returns the name used in rendered plans
func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Leaf:
		return "leaf"
	default:
		return "none"
	}
}

// Entry is the value stored for one relative path.
//
// For Directory entries Priority is the priority of the last package that
// recursed into the path, not necessarily the best one. Source is that
// package's directory and is empty for directories seeded from the
// paths-to-link.
type Entry struct {
	Kind     Kind
	Target   string
	Source   string
	Priority int
}

// Dir returns a Directory entry
func Dir(priority int, source string) Entry {
	return Entry{Kind: Directory, Source: source, Priority: priority}
}

// Link returns a Leaf entry pointing at target
func Link(target string, priority int) Entry {
	return Entry{Kind: Leaf, Target: target, Priority: priority}
}

// IsNone reports whether the entry is absent
func (e Entry) IsNone() bool { return e.Kind == None }

// IsDir reports whether the entry is a merge point
func (e Entry) IsDir() bool { return e.Kind == Directory }

// IsLeaf reports whether the entry links a single object
func (e Entry) IsLeaf() bool { return e.Kind == Leaf }

// IsSeeded reports whether the entry is a directory created up front rather
// than by merging a package directory.
func (e Entry) IsSeeded() bool { return e.Kind == Directory && e.Source == "" }

// Plan maps normalized relative paths to entries. It is owned by a single
// planner and is not safe for concurrent use.
type Plan struct {
	entries map[string]Entry
}

// New returns a plan holding the root directory and a priority 0 directory
// for every seed path.
func New(seed []string) *Plan {
	p := &Plan{entries: make(map[string]Entry)}
	p.entries[""] = Dir(0, "")
	for _, rel := range seed {
		p.entries[rel] = Dir(0, "")
	}
	return p
}

// Get returns the entry for rel, or a None entry with Infinity priority.
func (p *Plan) Get(rel string) Entry {
	if e, ok := p.entries[rel]; ok {
		return e
	}
	return Entry{Kind: None, Priority: Infinity}
}

// Set stores an entry. Setting a None entry removes the path.
func (p *Plan) Set(rel string, e Entry) {
	if e.Kind == None {
		delete(p.entries, rel)
		return
	}
	p.entries[rel] = e
}

// Len returns the number of entries, the root included
func (p *Plan) Len() int {
	return len(p.entries)
}

// Paths returns every relative path in the plan, parents before children.
func (p *Plan) Paths() []string {
	paths := make([]string, 0, len(p.entries))
	for rel := range p.entries {
		paths = append(paths, rel)
	}
	sort.Slice(paths, func(i, j int) bool {
		return less(paths[i], paths[j])
	})
	return paths
}

// Leaves returns the number of Leaf entries
func (p *Plan) Leaves() int {
	n := 0
	for _, e := range p.entries {
		if e.Kind == Leaf {
			n++
		}
	}
	return n
}

// less orders paths component by component so that "/a" and everything
// below it sorts before "/a-b".
func less(a, b string) bool {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

// Seeded reports whether rel is a directory that was created up front
func (p *Plan) Seeded(rel string) bool {
	e, ok := p.entries[rel]
	return ok && e.IsSeeded()
}
