package domain

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder for performance.
// This avoids creating a new caser for each comparison.
var foldCaser = cases.Fold()

// suggestThreshold is the minimum similarity (0.0-1.0) a candidate must
// reach to be offered as a "did you mean" suggestion. Below this the miss
// is more likely a missing entity than a typo.
const suggestThreshold = 0.5

// SuggestName returns the candidate most similar to name, or the empty
// string when no candidate is close enough to plausibly be a typo.
// Comparison is case-folded and uses Levenshtein distance, so near-misses
// like "exact_Match" or "exact_mach" still suggest "exact_match".
func SuggestName(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	prepared := foldCaser.String(name)

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := similarity(prepared, foldCaser.String(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}

// similarity scores two prepared strings between 0.0 and 1.0, where 1.0
// means identical. Levenshtein distance operates on runes, so the
// normalization uses rune counts for correct Unicode handling.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
