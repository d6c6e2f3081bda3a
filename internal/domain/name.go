// Package domain contains the core data types for the name service.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, worker, handler).
package domain

import "strings"

// NamePool is the immutable, ordered set of candidate names.
// The zero value is an empty pool. A NamePool is safe to share, but workers
// take their own Clone so that no two workers ever hold the same backing array.
type NamePool struct {
	names []string
}

// NewNamePool builds a NamePool from names, keeping their order.
// The input is copied; entries that are empty or whitespace-only are dropped
// and the remaining ones are trimmed.
func NewNamePool(names []string) NamePool {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			out = append(out, t)
		}
	}
	return NamePool{names: out}
}

// All returns the names in pool order. The returned slice is a copy.
func (p NamePool) All() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of names in the pool.
func (p NamePool) Len() int {
	return len(p.names)
}

// Clone returns an independent copy of the pool.
func (p NamePool) Clone() NamePool {
	return NamePool{names: p.All()}
}
