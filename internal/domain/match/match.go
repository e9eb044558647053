// Package match implements the three substring-matching strategies the
// benchmark compares: Greedy (naive scan), Knuth-Morris-Pratt and Boyer-Moore.
//
// All searchers operate on runes, report the first occurrence only, and count
// character equality tests between a text rune and a pattern rune. Table
// construction (KMP failure function, Boyer-Moore bad-character table) is not
// charged, so comparison totals reflect the scan phase alone.
package match

import (
	"fmt"
	"unicode"

	"github.com/corey/mbench/internal/ports"
)

// For returns the Searcher for alg.
func For(alg ports.Algorithm) (ports.Searcher, error) {
	switch alg {
	case ports.Greedy:
		return Greedy{}, nil
	case ports.KMP:
		return KMP{}, nil
	case ports.BoyerMoore:
		return BoyerMoore{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrInvalidAlgorithm, alg)
}

// Blank reports whether s is empty or contains only white space.
func Blank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// searchable is the guard shared by all three algorithms: blank patterns and
// patterns longer than the text are not-found without any comparison.
func searchable(text, pattern []rune) bool {
	if len(pattern) == 0 || len(pattern) > len(text) {
		return false
	}
	for _, r := range pattern {
		if !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
