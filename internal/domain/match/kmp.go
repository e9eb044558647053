package match

import "github.com/corey/mbench/internal/ports"

// KMP is Knuth-Morris-Pratt. The text pointer never moves backwards; on a
// mismatch the pattern pointer falls back through the failure table.
//
// One comparison is charged per scan step. A step tests text[i] against
// pattern[j]; after a successful advance it peeks at the next pair and, if
// that pair already mismatches, applies the fallback in the same step.
// The peek is not charged again. Total is bounded by 2n.
type KMP struct{}

// Search implements ports.Searcher.
func (KMP) Search(text, pattern []rune) (int, int) {
	if !searchable(text, pattern) {
		return ports.NotFound, 0
	}
	lps := failureTable(pattern)
	n, m := len(text), len(pattern)
	comparisons := 0
	i, j := 0, 0
	for i < n {
		comparisons++
		if text[i] == pattern[j] {
			i++
			j++
		}
		if j == m {
			return i - j, comparisons
		}
		if i < n && text[i] != pattern[j] {
			if j != 0 {
				j = lps[j-1]
			} else {
				i++
			}
		}
	}
	return ports.NotFound, comparisons
}

// failureTable returns, for each prefix length k+1, the length of the longest
// proper prefix of pattern[:k+1] that is also its suffix.
func failureTable(pattern []rune) []int {
	lps := make([]int, len(pattern))
	length := 0
	for i := 1; i < len(pattern); {
		switch {
		case pattern[i] == pattern[length]:
			length++
			lps[i] = length
			i++
		case length != 0:
			length = lps[length-1]
		default:
			lps[i] = 0
			i++
		}
	}
	return lps
}
