// Package lexicon holds the static language tables that drive the tanong
// text-understanding pipeline: intent pattern tables, the typo-correction
// map, filler words, entity regular expressions, sentiment word lists, and
// the organization / position / committee alias tables.
//
// A [Lexicon] is immutable after construction and safe to share across
// concurrent conversation sessions. Runtime updates are handled by building
// a fresh Lexicon and atomically swapping the pointer, never by mutating an
// existing one.
package lexicon

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Intent is the enumerated category of user request the classifier assigns
// to an utterance.
type Intent string

const (
	IntentGreeting       Intent = "GREETING"
	IntentFarewell       Intent = "FAREWELL"
	IntentThanks         Intent = "THANKS"
	IntentViewSchedule   Intent = "VIEW_SCHEDULE"
	IntentUploadSchedule Intent = "UPLOAD_SCHEDULE"
	IntentRoomSearch     Intent = "ROOM_SEARCH"
	IntentRoomStats      Intent = "ROOM_STATS"
	IntentAnnouncements  Intent = "ANNOUNCEMENTS"
	IntentOrgInfo        Intent = "ORG_INFO"
	IntentOrgOfficer     Intent = "ORG_OFFICER"
	IntentOrgOfficerList Intent = "ORG_OFFICER_LIST"
	IntentOrgCommittee   Intent = "ORG_COMMITTEE"
	IntentEvents         Intent = "EVENTS"
	IntentHelp           Intent = "HELP"
	IntentCapabilities   Intent = "CAPABILITIES"
	IntentUnknown        Intent = "UNKNOWN"
)

// EntityType labels a category of extracted entity.
type EntityType string

const (
	EntityTime         EntityType = "time"
	EntityDay          EntityType = "day"
	EntityRoom         EntityType = "room"
	EntityOrganization EntityType = "organization"
	EntitySubject      EntityType = "subject"
	EntityPosition     EntityType = "position"
)

// IntentDefinition binds an intent label to the phrase patterns that signal
// it and the weight its matches carry in scoring.
type IntentDefinition struct {
	Name Intent `yaml:"name"`

	// Patterns is the ordered list of phrase strings tested against the
	// utterance. Must be non-empty. Patterns are stored lowercase.
	Patterns []string `yaml:"patterns"`

	// Weight scales every signal score for this intent. Must be > 0.
	Weight float64 `yaml:"weight"`
}

// Organization identifies a campus organization by short code and display name.
type Organization struct {
	Code        string `yaml:"code"`
	DisplayName string `yaml:"display_name"`
}

// Lexicon is the full set of static language tables. All fields are
// read-only after [New] returns.
type Lexicon struct {
	// Intents is the ordered intent pattern table. Order matters: when two
	// intents produce identical scores, the earlier definition wins, which
	// keeps classification deterministic.
	Intents []IntentDefinition

	// Typos maps a misspelled token to its canonical form.
	Typos map[string]string

	// Fillers is the set of tokens removed during normalization.
	Fillers map[string]struct{}

	// EntityPatterns maps each entity type to its compiled extraction regex.
	EntityPatterns map[EntityType]*regexp.Regexp

	// Positive and Negative are the sentiment word lists.
	Positive []string
	Negative []string

	// OrgAliases maps a lowercase free-text alias to its organization.
	// Both the entity extractor and the classifier's priority override
	// consult this table.
	OrgAliases map[string]Organization

	// Positions maps a lowercase position keyword to a canonical position ID
	// (e.g. "vp" -> "vice-president").
	Positions map[string]string

	// Committees maps a lowercase committee keyword to a canonical
	// committee ID.
	Committees map[string]string
}

// New builds a validated Lexicon from def. The returned Lexicon copies
// nothing; callers must not mutate the inputs afterwards.
func New(intents []IntentDefinition, tables Tables) (*Lexicon, error) {
	lex := &Lexicon{
		Intents:        intents,
		Typos:          tables.Typos,
		Fillers:        tables.Fillers,
		EntityPatterns: tables.EntityPatterns,
		Positive:       tables.Positive,
		Negative:       tables.Negative,
		OrgAliases:     tables.OrgAliases,
		Positions:      tables.Positions,
		Committees:     tables.Committees,
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// Tables groups every non-intent table so [New] stays readable.
type Tables struct {
	Typos          map[string]string
	Fillers        map[string]struct{}
	EntityPatterns map[EntityType]*regexp.Regexp
	Positive       []string
	Negative       []string
	OrgAliases     map[string]Organization
	Positions      map[string]string
	Committees     map[string]string
}

// Validate checks the lexicon invariants: unique intent names, non-empty
// pattern lists, and positive weights. It returns a joined error listing
// every violation found.
func (l *Lexicon) Validate() error {
	var errs []error

	seen := make(map[Intent]int, len(l.Intents))
	for i, def := range l.Intents {
		prefix := fmt.Sprintf("intents[%d]", i)
		if def.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if prev, ok := seen[def.Name]; ok {
			errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of intents[%d]", prefix, def.Name, prev))
		} else {
			seen[def.Name] = i
		}
		if len(def.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("%s (%s) has no patterns", prefix, def.Name))
		}
		for j, p := range def.Patterns {
			if p == "" {
				errs = append(errs, fmt.Errorf("%s.patterns[%d] is empty", prefix, j))
			}
		}
		if def.Weight <= 0 {
			errs = append(errs, fmt.Errorf("%s (%s) weight %.2f must be > 0", prefix, def.Name, def.Weight))
		}
	}

	for alias, org := range l.OrgAliases {
		if org.Code == "" {
			errs = append(errs, fmt.Errorf("org alias %q has no code", alias))
		}
	}

	// Typo corrections must be fixed points of normalization, otherwise
	// normalize(normalize(x)) != normalize(x).
	for wrong, canonical := range l.Typos {
		if mapped, ok := l.Typos[canonical]; ok && mapped != canonical {
			errs = append(errs, fmt.Errorf("typo %q corrects to %q, which is itself corrected to %q", wrong, canonical, mapped))
		}
		if _, isFiller := l.Fillers[canonical]; isFiller {
			errs = append(errs, fmt.Errorf("typo %q corrects to filler word %q", wrong, canonical))
		}
	}

	return errors.Join(errs...)
}

// Organizations returns the distinct organizations in the alias table,
// ordered by code. Used by the dispatcher's clarifying prompt.
func (l *Lexicon) Organizations() []Organization {
	byCode := make(map[string]Organization, len(l.OrgAliases))
	for _, org := range l.OrgAliases {
		byCode[org.Code] = org
	}
	out := make([]Organization, 0, len(byCode))
	for _, org := range byCode {
		out = append(out, org)
	}
	slices.SortFunc(out, func(a, b Organization) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}
