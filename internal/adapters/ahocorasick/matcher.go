// Package ahocorasick provides an independent reference matcher built on an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick library
// and is used to cross-check the indices reported by the benchmarked algorithms.
package ahocorasick

import (
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Reference implements ports.Verifier.
type Reference struct {
	opts aho.Opts
}

// NewReference creates a reference matcher. The automaton is compiled per
// pattern, so a Reference is safe for concurrent use.
func NewReference() *Reference {
	return &Reference{opts: aho.Opts{DFA: true}}
}

// FirstIndex returns the rune offset of the first occurrence of pattern in
// text, or -1. An empty pattern is never found.
func (r *Reference) FirstIndex(text, pattern string) int {
	if pattern == "" {
		return -1
	}
	builder := aho.NewAhoCorasickBuilder(r.opts)
	automaton := builder.Build([]string{pattern})
	matches := automaton.FindAll(text)
	if len(matches) == 0 {
		return -1
	}
	first := matches[0].Start()
	for i := range matches {
		if matches[i].Start() < first {
			first = matches[i].Start()
		}
	}
	return utf8.RuneCountInString(text[:first])
}
