package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Aho-Corasick reference matcher: independent first-occurrence oracle
// =============================================================================

func TestReference_FirstIndex(t *testing.T) {
	r := NewReference()
	tests := []struct {
		text, pattern string
		want          int
	}{
		{"a cat sat", "cat", 2},
		{"abxabcabcaby", "abcaby", 6},
		{"hello world", "xyz", -1},
		{"abababab", "ab", 0},
		{"aaaab", "ab", 3},
		{"naïve café", "café", 6},
		{"abc", "", -1},
		{"", "a", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.FirstIndex(tt.text, tt.pattern), "%q in %q", tt.pattern, tt.text)
	}
}

func TestReference_CaseSensitive(t *testing.T) {
	// Caller folds case before matching.
	r := NewReference()
	assert.Equal(t, -1, r.FirstIndex("ABC", "abc"))
	assert.Equal(t, 0, r.FirstIndex("abc", "abc"))
}
