// Package service contains the business logic for the name service.
// The selector is a pure function over an in-memory pool; randomness is
// injected through Source so tests can pin the outcome.
package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkordes/name-service/internal/domain"
)

// Source is the entropy the selector draws from.
// IntN must return a value in [0, n) and may panic if n <= 0; Select never
// calls it with an empty candidate set.
type Source interface {
	IntN(n int) int
}

type runtimeSource struct{}

func (runtimeSource) IntN(n int) int { return rand.IntN(n) }

// RuntimeSource returns a Source backed by the math/rand/v2 global generator,
// which the runtime seeds from system entropy. It is safe for concurrent use.
func RuntimeSource() Source {
	return runtimeSource{}
}

// SeededSource returns a deterministic Source. Two sources built from the same
// seed produce the same sequence. The result is not safe for concurrent use.
func SeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// foldKey maps s to a form that upper-casing s does not change, so "ı", "I"
// and "i" share one key.
func foldKey(s string) string {
	return strings.ToLower(strings.ToUpper(s))
}

// Candidates returns the names in pool that start with prefix, compared
// case-insensitively, in pool order. An empty prefix matches every name.
func Candidates(pool []string, prefix string) []string {
	if prefix == "" {
		out := make([]string, len(pool))
		copy(out, pool)
		return out
	}

	p := foldKey(prefix)
	var out []string
	for _, name := range pool {
		if strings.HasPrefix(foldKey(name), p) {
			out = append(out, name)
		}
	}
	return out
}

// Select picks one name uniformly at random from the names in pool that start
// with prefix. It returns domain.ErrNoMatch when nothing matches, including
// when pool itself is empty.
func Select(pool []string, prefix string, src Source) (string, error) {
	candidates := Candidates(pool, prefix)
	if len(candidates) == 0 {
		return "", fmt.Errorf("service.Select: prefix %q: %w", prefix, domain.ErrNoMatch)
	}
	return candidates[src.IntN(len(candidates))], nil
}
