// Package names embeds the default name pool compiled into the binary.
// The pool is parsed once, on first use, and is never read from disk at
// request time.
package names

import (
	"bufio"
	_ "embed"
	"strings"
	"sync"
)

// raw holds names.txt: one name per line, blank lines and lines starting
// with '#' are ignored.
//
//go:embed names.txt
var raw string

var (
	parseOnce sync.Once
	parsed    []string
)

// All returns the default pool in file order. Each call returns a fresh
// slice, so callers may keep or modify it freely.
func All() []string {
	parseOnce.Do(func() {
		parsed = Parse(raw)
	})
	out := make([]string, len(parsed))
	copy(out, parsed)
	return out
}

// Parse splits a names file into its entries.
func Parse(s string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
