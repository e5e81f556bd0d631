// Package search implements the list screens' free-text filter.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold normalizes s for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Match reports whether term occurs in any of fields, ignoring case. An
// empty term matches everything.
func Match(term string, fields ...string) bool {
	needle := Fold(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), needle) {
			return true
		}
	}
	return false
}

// Filter returns the items whose fields match term. The input is never
// modified and the result is always a fresh slice.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Match(term, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
