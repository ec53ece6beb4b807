// Package nlu implements the text-understanding pipeline for the campus
// assistant: normalization, fuzzy matching, intent classification, entity
// extraction, and sentiment analysis.
//
// Every component in this package is pure and deterministic: given the same
// lexicon and the same utterance, the same result is produced. Nothing here
// mutates shared state, so one pipeline instance may serve any number of
// concurrent conversation sessions.
package nlu

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of single-character inserts, deletes, and substitutions
// (cost 1 each) needed to turn one string into the other.
func Distance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Similarity returns a score in [0, 1] derived from the edit distance:
// 1 - Distance(a, b) / max(len(a), len(b)). Two empty strings score 1.
// Similarity is symmetric: Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	longest := max(len(a), len(b))
	return 1 - float64(Distance(a, b))/float64(longest)
}

// FuzzyContains reports whether input contains target either literally
// (whole-string substring, case-insensitive) or approximately: any
// whitespace-delimited token of input with Similarity(token, target) at or
// above threshold counts as a match.
func FuzzyContains(input, target string, threshold float64) bool {
	in := strings.ToLower(input)
	tg := strings.ToLower(target)
	if strings.Contains(in, tg) {
		return true
	}
	for _, tok := range strings.Fields(in) {
		if Similarity(tok, tg) >= threshold {
			return true
		}
	}
	return false
}
