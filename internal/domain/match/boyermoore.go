package match

import "github.com/corey/mbench/internal/ports"

// BoyerMoore uses the bad-character rule only. The window is compared right
// to left; the order matters because it decides which comparisons are counted.
type BoyerMoore struct{}

// Search implements ports.Searcher.
func (BoyerMoore) Search(text, pattern []rune) (int, int) {
	if !searchable(text, pattern) {
		return ports.NotFound, 0
	}
	last := badCharTable(pattern)
	n, m := len(text), len(pattern)
	comparisons := 0
	for s := 0; s <= n-m; {
		j := m - 1
		for j >= 0 {
			comparisons++
			if pattern[j] != text[s+j] {
				break
			}
			j--
		}
		if j < 0 {
			return s, comparisons
		}
		s += max(1, j-lastOccurrence(last, text[s+j]))
	}
	return ports.NotFound, comparisons
}

// badCharTable maps each rune of pattern to its last offset in pattern.
func badCharTable(pattern []rune) map[rune]int {
	last := make(map[rune]int, len(pattern))
	for i, r := range pattern {
		last[r] = i
	}
	return last
}

// lastOccurrence returns the last offset of r in the pattern, or -1.
func lastOccurrence(last map[rune]int, r rune) int {
	if i, ok := last[r]; ok {
		return i
	}
	return -1
}
