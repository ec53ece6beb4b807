package nlu

import (
	"strings"

	"github.com/kabalen/tanong/internal/lexicon"
)

// Sentiment labels the emotional polarity of an utterance.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Analyzer is a lexicon-vote sentiment scorer. Each positive or negative
// lexicon entry present in the text (case-insensitive substring) counts
// once; the larger count wins and ties, including zero/zero, are neutral.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// NewAnalyzer creates an Analyzer over the given lexicon's sentiment lists.
func NewAnalyzer(lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// Analyze returns the sentiment label for text.
func (a *Analyzer) Analyze(text string) Sentiment {
	lowered := strings.ToLower(text)

	positive := countPresent(lowered, a.lex.Positive)
	negative := countPresent(lowered, a.lex.Negative)

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// countPresent counts how many lexicon entries occur in text at least once.
func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
