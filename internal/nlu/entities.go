package nlu

import (
	"slices"
	"strings"

	"github.com/kabalen/tanong/internal/lexicon"
)

// EntityBag maps an entity type to the deduplicated, ordered list of
// surface strings matched in one utterance. Types with no match are simply
// absent. A bag is produced fresh per turn and never mutated afterwards.
type EntityBag map[lexicon.EntityType][]string

// Merge returns a new bag containing all entries of b overlaid with those
// of newer; on a type collision the newer values win. Used by the context
// tracker to accumulate entities across turns.
func (b EntityBag) Merge(newer EntityBag) EntityBag {
	out := make(EntityBag, len(b)+len(newer))
	for t, vals := range b {
		out[t] = slices.Clone(vals)
	}
	for t, vals := range newer {
		out[t] = slices.Clone(vals)
	}
	return out
}

// Extractor scans utterances for typed entity mentions using the lexicon's
// regex table, and resolves free-text organization, position, and committee
// references through the alias tables. It is read-only after construction
// and safe for concurrent use.
type Extractor struct {
	lex *lexicon.Lexicon

	// alias keys sorted longest-first so the most specific alias wins
	// ("central student council" before "csc").
	orgAliases      []string
	positionKeys    []string
	committeeKeys   []string
	orderedPatterns []lexicon.EntityType
}

// NewExtractor creates an Extractor over the given lexicon.
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{
		lex:             lex,
		orgAliases:      sortedKeysLongestFirst(lex.OrgAliases),
		positionKeys:    sortedKeysLongestFirst(lex.Positions),
		committeeKeys:   sortedKeysLongestFirst(lex.Committees),
		orderedPatterns: sortedPatternTypes(lex),
	}
}

// Extract runs every entity regex against text (case-insensitive) and
// returns the deduplicated matches grouped by type. Surface strings are
// lowercased so duplicate detection ignores case.
func (e *Extractor) Extract(text string) EntityBag {
	bag := make(EntityBag)
	for _, typ := range e.orderedPatterns {
		re := e.lex.EntityPatterns[typ]
		matches := re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(matches))
		vals := make([]string, 0, len(matches))
		for _, m := range matches {
			m = strings.ToLower(strings.TrimSpace(m))
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			vals = append(vals, m)
		}
		bag[typ] = vals
	}
	return bag
}

// Organization resolves the first organization mentioned in text by alias
// substring match, preferring longer aliases. The second return is false
// when no alias is present.
func (e *Extractor) Organization(text string) (lexicon.Organization, bool) {
	lowered := strings.ToLower(text)
	for _, alias := range e.orgAliases {
		if containsWord(lowered, alias) {
			return e.lex.OrgAliases[alias], true
		}
	}
	return lexicon.Organization{}, false
}

// Position resolves the first position keyword mentioned in text to its
// canonical position ID, preferring longer keywords ("vice president"
// before "president"). The second return is false when none is present.
func (e *Extractor) Position(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, key := range e.positionKeys {
		if containsWord(lowered, key) {
			return e.lex.Positions[key], true
		}
	}
	return "", false
}

// Committee resolves the first committee keyword mentioned in text to its
// canonical committee ID. The second return is false when none is present.
func (e *Extractor) Committee(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, key := range e.committeeKeys {
		if containsWord(lowered, key) {
			return e.lex.Committees[key], true
		}
	}
	return "", false
}

// containsWord reports whether phrase occurs in text on word boundaries.
// Plain substring matching would resolve "vp" inside "mvp"; boundary checks
// keep short aliases safe.
func containsWord(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

func sortedKeysLongestFirst[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return keys
}

// sortedPatternTypes fixes the regex evaluation order so extraction output
// is deterministic regardless of map iteration order.
func sortedPatternTypes(lex *lexicon.Lexicon) []lexicon.EntityType {
	types := make([]lexicon.EntityType, 0, len(lex.EntityPatterns))
	for t := range lex.EntityPatterns {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
