// Package similarity scores how close two strings are under edit distance.
package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distance returns the Levenshtein edit distance between a and b, counted in
// runes with unit cost for insertions, deletions and substitutions.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Ratio returns (maxLen - distance) / maxLen in [0, 1], where maxLen is the
// rune length of the longer string. Two empty strings score 1. Ratio is
// symmetric and Ratio(x, x) == 1.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}
