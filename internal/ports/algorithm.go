// Package ports defines the types and interfaces shared across the benchmark engine.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete adapters.
package ports

import (
	"fmt"
	"strings"
)

// Algorithm selects one of the substring-matching strategies.
type Algorithm int

const (
	Greedy Algorithm = iota
	KMP
	BoyerMoore
)

// Wire names used by the CLI, the socket protocol, the HTTP API and config files.
const (
	NameGreedy     = "greedy"
	NameKMP        = "kmp"
	NameBoyerMoore = "boyer_moore"
)

// Algorithms returns every known algorithm in canonical order.
func Algorithms() []Algorithm {
	return []Algorithm{Greedy, KMP, BoyerMoore}
}

// String returns the wire name.
func (a Algorithm) String() string {
	switch a {
	case Greedy:
		return NameGreedy
	case KMP:
		return NameKMP
	case BoyerMoore:
		return NameBoyerMoore
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Valid reports whether a is one of the three known algorithms.
func (a Algorithm) Valid() bool {
	return a >= Greedy && a <= BoyerMoore
}

// ParseAlgorithm maps a wire name to an Algorithm. Matching ignores case and
// surrounding whitespace; "boyer-moore" is accepted as an alias.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case NameGreedy:
		return Greedy, nil
	case NameKMP:
		return KMP, nil
	case NameBoyerMoore, "boyer-moore":
		return BoyerMoore, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
