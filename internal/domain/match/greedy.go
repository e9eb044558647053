package match

import "github.com/corey/mbench/internal/ports"

// Greedy is the naive scan: try every alignment left to right and abandon an
// alignment at its first mismatch. Worst case n*m comparisons.
type Greedy struct{}

// Search implements ports.Searcher.
func (Greedy) Search(text, pattern []rune) (int, int) {
	if !searchable(text, pattern) {
		return ports.NotFound, 0
	}
	n, m := len(text), len(pattern)
	comparisons := 0
	for s := 0; s <= n-m; s++ {
		j := 0
		for ; j < m; j++ {
			comparisons++
			if text[s+j] != pattern[j] {
				break
			}
		}
		if j == m {
			return s, comparisons
		}
	}
	return ports.NotFound, comparisons
}
