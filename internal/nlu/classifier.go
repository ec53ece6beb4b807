package nlu

import (
	"strings"

	"github.com/kabalen/tanong/internal/lexicon"
)

// Thresholds collects every tunable constant of the scoring heuristics so
// threshold tuning never touches the signal code.
type Thresholds struct {
	// FuzzyContain is the per-token similarity needed for the fuzzy
	// whole-string signal to fire.
	FuzzyContain float64

	// WordSimilarity is the similarity at which two words count as the
	// same word in the overlap signal.
	WordSimilarity float64

	// OverlapRatio is the fraction of pattern words that must be matched
	// for the overlap signal to fire.
	OverlapRatio float64

	// UnknownCutoff is the confidence below which classification yields
	// UNKNOWN with confidence zero.
	UnknownCutoff float64

	// ForwardBoost scales the forward-containment signal.
	ForwardBoost float64

	// ReverseScore is the flat score of the reverse-containment signal.
	ReverseScore float64

	// FuzzyScore is the flat score of the fuzzy whole-string signal.
	FuzzyScore float64

	// OverlapDamp scales the word-overlap signal down.
	OverlapDamp float64

	// MinReverseLen is the minimum candidate length for reverse containment.
	MinReverseLen int

	// MinOverlapWordLen is the minimum word length counted by the overlap
	// signal; shorter words are noise ("is", "ng", "sa").
	MinOverlapWordLen int
}

// DefaultThresholds returns the canonical threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FuzzyContain:      0.55,
		WordSimilarity:    0.7,
		OverlapRatio:      0.6,
		UnknownCutoff:     0.12,
		ForwardBoost:      1.5,
		ReverseScore:      0.6,
		FuzzyScore:        0.7,
		OverlapDamp:       0.8,
		MinReverseLen:     3,
		MinOverlapWordLen: 3,
	}
}

// Result is the outcome of classifying one utterance.
type Result struct {
	Intent     lexicon.Intent
	Confidence float64
}

// OverrideRule is a short-circuiting business rule evaluated before generic
// scoring. It receives the lowercased original utterance and its normalized
// form; when it returns ok=true its Result is final.
type OverrideRule func(original, normalized string, ex *Extractor) (Result, bool)

// Classifier assigns an intent and a confidence score to an utterance by
// combining five independent matching signals over the lexicon's pattern
// table: exact match, forward containment, reverse containment, fuzzy
// whole-string match, and word overlap. Each signal favours a different
// utterance style (abbreviations, long questions, typo-laden input); the
// best score across all signals, patterns, and both the normalized and the
// original string wins.
//
// A Classifier is read-only after construction and safe for concurrent use.
type Classifier struct {
	lex       *lexicon.Lexicon
	norm      *Normalizer
	extractor *Extractor
	th        Thresholds
	overrides []OverrideRule
}

// ClassifierOption is a functional option for configuring a [Classifier].
type ClassifierOption func(*Classifier)

// WithThresholds replaces the default threshold set.
func WithThresholds(th Thresholds) ClassifierOption {
	return func(c *Classifier) {
		c.th = th
	}
}

// WithOverrideRules replaces the default override rule list. Rules run in
// order before generic scoring; the first rule to fire decides the intent.
func WithOverrideRules(rules ...OverrideRule) ClassifierOption {
	return func(c *Classifier) {
		c.overrides = rules
	}
}

// NewClassifier creates a Classifier over the given lexicon with the
// default thresholds and the default override rule set.
func NewClassifier(lex *lexicon.Lexicon, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		lex:       lex,
		norm:      NewNormalizer(lex),
		extractor: NewExtractor(lex),
		th:        DefaultThresholds(),
		overrides: []OverrideRule{OrganizationOfficerRule},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify determines the intent of rawInput. It always terminates with a
// result; input that matches nothing convincingly yields UNKNOWN with
// confidence zero.
func (c *Classifier) Classify(rawInput string) Result {
	original := strings.ToLower(strings.TrimSpace(rawInput))
	normalized := c.norm.Normalize(rawInput)

	for _, rule := range c.overrides {
		if res, ok := rule(original, normalized, c.extractor); ok {
			return res
		}
	}

	best := Result{Intent: lexicon.IntentUnknown}
	for _, candidate := range []string{normalized, original} {
		if candidate == "" {
			continue
		}
		for _, def := range c.lex.Intents {
			for _, pattern := range def.Patterns {
				if candidate == pattern {
					// An exact pattern hit is as good as it gets; stop looking.
					return Result{Intent: def.Name, Confidence: 1.0}
				}
				for _, signal := range partialSignals {
					conf, ok := signal(candidate, pattern, def.Weight, c.th)
					c.consider(&best, def.Name, conf, ok)
				}
			}
		}
	}

	if best.Confidence < c.th.UnknownCutoff {
		return Result{Intent: lexicon.IntentUnknown, Confidence: 0}
	}
	return best
}

// partialSignals are the non-exact scoring signals, applied to every
// (candidate, pattern) pair in order.
var partialSignals = []func(candidate, pattern string, weight float64, th Thresholds) (float64, bool){
	forwardContainment,
	reverseContainment,
	fuzzyWholeString,
	wordOverlap,
}

// consider keeps the best (intent, confidence) pair seen so far. Strict
// comparison means earlier intents in the lexicon win ties, which keeps the
// outcome deterministic.
func (c *Classifier) consider(best *Result, intent lexicon.Intent, conf float64, ok bool) {
	if ok && conf > best.Confidence {
		best.Intent = intent
		best.Confidence = conf
	}
}

// forwardContainment fires when the pattern is a substring of the candidate.
// Short patterns inside long candidates score lower; the boost rewards
// patterns that cover most of the utterance.
func forwardContainment(candidate, pattern string, weight float64, th Thresholds) (float64, bool) {
	if !strings.Contains(candidate, pattern) {
		return 0, false
	}
	coverage := float64(len(pattern)) / float64(max(len(candidate), 1))
	return min(coverage*weight*th.ForwardBoost, 1.0), true
}

// reverseContainment fires when the candidate itself appears inside the
// pattern — the abbreviation case ("sched" inside "schedule ko"). Very
// short candidates are excluded to avoid single letters matching everything.
func reverseContainment(candidate, pattern string, weight float64, th Thresholds) (float64, bool) {
	if len(candidate) < th.MinReverseLen || !strings.Contains(pattern, candidate) {
		return 0, false
	}
	return th.ReverseScore * weight, true
}

// fuzzyWholeString fires when the pattern fuzzy-matches the candidate as a
// whole or any of its tokens, catching typo-laden input the typo table
// does not cover.
func fuzzyWholeString(candidate, pattern string, weight float64, th Thresholds) (float64, bool) {
	if !FuzzyContains(candidate, pattern, th.FuzzyContain) {
		return 0, false
	}
	return th.FuzzyScore * weight, true
}

// wordOverlap fires when enough of the pattern's significant words appear
// (fuzzily) among the candidate's words — the long-natural-question case,
// where neither string contains the other.
func wordOverlap(candidate, pattern string, weight float64, th Thresholds) (float64, bool) {
	patternWords := significantWords(pattern, th.MinOverlapWordLen)
	if len(patternWords) == 0 {
		return 0, false
	}
	candidateWords := significantWords(candidate, th.MinOverlapWordLen)

	matched := 0
	for _, pw := range patternWords {
		for _, cw := range candidateWords {
			if Similarity(pw, cw) >= th.WordSimilarity {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(patternWords))
	if ratio < th.OverlapRatio {
		return 0, false
	}
	return ratio * weight * th.OverlapDamp, true
}

// significantWords returns the whitespace tokens of s longer than minLen-1
// characters.
func significantWords(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// OrganizationOfficerRule is the default priority override: organizational
// queries are high-value and compete poorly against generic patterns, so a
// detected organization plus a position keyword forces ORG_OFFICER with
// full confidence, and an organization plus an "officer" or "who" token
// forces it at 0.9.
func OrganizationOfficerRule(original, normalized string, ex *Extractor) (Result, bool) {
	if _, orgOK := firstHit(ex.Organization, original, normalized); !orgOK {
		return Result{}, false
	}

	if _, posOK := firstHit(ex.Position, original, normalized); posOK {
		return Result{Intent: lexicon.IntentOrgOfficer, Confidence: 1.0}, true
	}
	if hasAnyToken(original, "officer", "who") || hasAnyToken(normalized, "officer", "who") {
		return Result{Intent: lexicon.IntentOrgOfficer, Confidence: 0.9}, true
	}
	return Result{}, false
}

// firstHit runs lookup against each text in order and returns the first match.
func firstHit[T any](lookup func(string) (T, bool), texts ...string) (T, bool) {
	var zero T
	for _, t := range texts {
		if v, ok := lookup(t); ok {
			return v, true
		}
	}
	return zero, false
}

// hasAnyToken reports whether any whitespace token of s equals one of the
// given words exactly.
func hasAnyToken(s string, words ...string) bool {
	for _, tok := range strings.Fields(s) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}
