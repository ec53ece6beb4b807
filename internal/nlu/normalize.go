package nlu

import (
	"strings"

	"github.com/kabalen/tanong/internal/lexicon"
)

// Normalizer cleans a raw utterance into the canonical form the classifier
// scores against: lowercased, whitespace-collapsed, filler words removed,
// and known misspellings corrected token by token.
//
// Normalization is idempotent: normalizing an already-normalized string
// returns it unchanged. The Normalizer is read-only after construction and
// safe for concurrent use.
type Normalizer struct {
	lex *lexicon.Lexicon
}

// NewNormalizer creates a Normalizer over the given lexicon's filler set
// and typo table.
func NewNormalizer(lex *lexicon.Lexicon) *Normalizer {
	return &Normalizer{lex: lex}
}

// Normalize applies the normalization steps in order: lowercase and trim,
// collapse whitespace runs, drop filler tokens (exact word match), then
// replace each token found in the typo table with its canonical form.
// It never fails; the result may be empty when the input was all filler.
func (n *Normalizer) Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	tokens := strings.Fields(lowered)

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, isFiller := n.lex.Fillers[tok]; isFiller {
			continue
		}
		if canonical, ok := n.lex.Typos[tok]; ok {
			tok = canonical
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}
