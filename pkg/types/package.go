package types

// Package is one entry of the package list: one or more output directories
// sharing a priority. Lower priorities win collisions.
type Package struct {
	Paths    []string `json:"paths" yaml:"paths"`
	Priority int      `json:"priority" yaml:"priority"`
}

// PropagatedPriorityBase is the priority given to the first package found
// through a propagated-user-env-packages list. Each further propagated
// package gets the next integer.
const PropagatedPriorityBase = 1000

// ExtraPathsPriority is the priority of packages read from extraPathsFrom.
const ExtraPathsPriority = 1000
