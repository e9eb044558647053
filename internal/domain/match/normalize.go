package match

import (
	"strings"
	"unicode"
)

// Normalize conditions text and patterns before they reach a searcher.
// With caseSensitive false both are folded with the same per-rune lowercase
// mapping, which keeps rune counts unchanged so indices stay valid offsets
// into the caller's original text. With caseSensitive true the inputs are
// returned as they are. The patterns slice is never modified in place.
func Normalize(text string, patterns []string, caseSensitive bool) (string, []string) {
	out := make([]string, len(patterns))
	if caseSensitive {
		copy(out, patterns)
		return text, out
	}
	for i, p := range patterns {
		out[i] = fold(p)
	}
	return fold(text), out
}

func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
