package match

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/corey/mbench/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Matching algorithms: first-occurrence search with comparison counting
// Expectation: all three agree on the index; each charges only scan-phase
// equality tests between a text rune and a pattern rune.
// =============================================================================

func search(t *testing.T, alg ports.Algorithm, text, pattern string) (int, int) {
	t.Helper()
	s, err := For(alg)
	require.NoError(t, err)
	return s.Search([]rune(text), []rune(pattern))
}

func TestFor_UnknownAlgorithm(t *testing.T) {
	_, err := For(ports.Algorithm(42))
	assert.True(t, errors.Is(err, ports.ErrInvalidAlgorithm))
}

func TestSearch_ExactCounts(t *testing.T) {
	tests := []struct {
		name    string
		alg     ports.Algorithm
		text    string
		pattern string
		index   int
		comps   int
	}{
		{"greedy scenario", ports.Greedy, "abxabcabcaby", "abcaby", 6, 19},
		{"kmp scenario", ports.KMP, "abxabcabcaby", "abcaby", 6, 12},
		{"boyer-moore scenario", ports.BoyerMoore, "abxabcabcaby", "abcaby", 6, 8},
		{"greedy absent", ports.Greedy, "hello world", "xyz", ports.NotFound, 9},
		{"kmp absent", ports.KMP, "hello world", "xyz", ports.NotFound, 11},
		{"boyer-moore absent", ports.BoyerMoore, "hello world", "xyz", ports.NotFound, 3},
		{"greedy whole text", ports.Greedy, "abc", "abc", 0, 3},
		{"kmp whole text", ports.KMP, "abc", "abc", 0, 3},
		{"boyer-moore whole text", ports.BoyerMoore, "abc", "abc", 0, 3},
		{"greedy later start", ports.Greedy, "xxabab", "ab", 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, comps := search(t, tt.alg, tt.text, tt.pattern)
			assert.Equal(t, tt.index, idx)
			assert.Equal(t, tt.comps, comps)
		})
	}
}

func TestSearch_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		index   int
	}{
		{"pattern longer than text", "ab", "abc", ports.NotFound},
		{"empty text", "", "a", ports.NotFound},
		{"empty pattern", "abc", "", ports.NotFound},
		{"blank pattern", "a   b", "   ", ports.NotFound},
		{"first of many", "abababab", "ab", 0},
		{"last position", "aaaab", "ab", 3},
		{"single rune", "z", "z", 0},
		{"multibyte runes", "naïve café", "café", 6},
	}
	for _, alg := range ports.Algorithms() {
		for _, tt := range tests {
			t.Run(alg.String()+"/"+tt.name, func(t *testing.T) {
				idx, comps := search(t, alg, tt.text, tt.pattern)
				assert.Equal(t, tt.index, idx)
				if tt.index == ports.NotFound && (Blank(tt.pattern) || utf8.RuneCountInString(tt.pattern) > utf8.RuneCountInString(tt.text)) {
					assert.Zero(t, comps, "guarded inputs never compare")
				}
			})
		}
	}
}

// runeIndex is strings.Index expressed as a rune offset.
func runeIndex(text, pattern string) int {
	b := strings.Index(text, pattern)
	if b < 0 {
		return ports.NotFound
	}
	return utf8.RuneCountInString(text[:b])
}

func randomString(rng *rand.Rand, alphabet string, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return sb.String()
}

func TestSearch_ParityAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 2000; iter++ {
		text := randomString(rng, "abc", rng.Intn(40))
		pattern := randomString(rng, "abc", 1+rng.Intn(5))
		want := runeIndex(text, pattern)
		n, m := len(text), len(pattern)

		for _, alg := range ports.Algorithms() {
			idx, comps := search(t, alg, text, pattern)
			require.Equal(t, want, idx, "%s text=%q pattern=%q", alg, text, pattern)
			require.GreaterOrEqual(t, comps, 0)
			switch alg {
			case ports.KMP:
				require.LessOrEqual(t, comps, 2*n, "kmp text=%q pattern=%q", text, pattern)
			default:
				require.LessOrEqual(t, comps, n*m, "%s text=%q pattern=%q", alg, text, pattern)
			}
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox ", 50) + "jumps"
	for _, alg := range ports.Algorithms() {
		i1, c1 := search(t, alg, text, "fox jumps")
		i2, c2 := search(t, alg, text, "fox jumps")
		assert.Equal(t, i1, i2)
		assert.Equal(t, c1, c2)
	}
}

func TestFailureTable(t *testing.T) {
	assert.Equal(t, []int{0, 0, 0, 1, 2, 0}, failureTable([]rune("abcaby")))
	assert.Equal(t, []int{0, 1, 2, 3}, failureTable([]rune("aaaa")))
	assert.Equal(t, []int{0, 0, 1, 2, 3, 4}, failureTable([]rune("ababab")))
}

func TestBadCharTable(t *testing.T) {
	last := badCharTable([]rune("abcaby"))
	assert.Equal(t, 3, lastOccurrence(last, 'a'))
	assert.Equal(t, 4, lastOccurrence(last, 'b'))
	assert.Equal(t, 5, lastOccurrence(last, 'y'))
	assert.Equal(t, -1, lastOccurrence(last, 'z'))
}

func TestBlank(t *testing.T) {
	assert.True(t, Blank(""))
	assert.True(t, Blank(" \t\n"))
	assert.False(t, Blank(" a "))
}

func BenchmarkSearch(b *testing.B) {
	text := []rune(strings.Repeat("lorem ipsum dolor sit amet ", 400) + "consectetur")
	pattern := []rune("consectetur")
	for _, alg := range ports.Algorithms() {
		s, _ := For(alg)
		b.Run(alg.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s.Search(text, pattern)
			}
		})
	}
}
