package respond

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"github.com/kabalen/tanong/internal/directory"
	"github.com/kabalen/tanong/internal/lexicon"
	"github.com/kabalen/tanong/internal/nlu"
	"github.com/kabalen/tanong/internal/session"
)

// maxSuggestions caps the follow-up list on every reply.
const maxSuggestions = 4

// apologyText is the generic reply for directory failures. Lookup misses
// get specific messages instead so callers (and tests) can tell the two
// apart by content.
const apologyText = "Sorry, I'm having trouble reaching the campus directory right now. Please try again in a moment."

// orgPlaceholder matches the generic word the static templates use where
// a concrete organization code can be substituted.
var orgPlaceholder = regexp.MustCompile(`(?i)\borganizations?\b`)

// Reply is the dispatcher's output for one turn.
type Reply struct {
	Text        string
	Suggestions []string
}

// dynamicIntents are the intents answered from the campus directory rather
// than the template pool.
var dynamicIntents = map[lexicon.Intent]struct{}{
	lexicon.IntentOrgOfficer:     {},
	lexicon.IntentOrgOfficerList: {},
	lexicon.IntentOrgCommittee:   {},
	lexicon.IntentRoomStats:      {},
}

// Dispatcher assembles the final reply for a classified turn. Static
// intents pick a random template from the pool; dynamic intents await the
// campus directory. The random source is injected so template selection is
// deterministic under a fixed seed.
//
// A Dispatcher is safe for concurrent use; the only mutable state is the
// random source, which is guarded by a mutex.
type Dispatcher struct {
	lex       *lexicon.Lexicon
	extractor *nlu.Extractor
	store     directory.Store

	templates   map[lexicon.Intent][]string
	suggestions map[lexicon.Intent][]string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option is a functional option for configuring a [Dispatcher].
type Option func(*Dispatcher)

// WithRand injects the random source used for template selection. Pass a
// seeded source in tests for deterministic replies.
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) {
		d.rng = rng
	}
}

// WithTemplates replaces the built-in template pool.
func WithTemplates(pool map[lexicon.Intent][]string) Option {
	return func(d *Dispatcher) {
		d.templates = pool
	}
}

// New creates a Dispatcher over the given lexicon and directory store.
func New(lex *lexicon.Lexicon, store directory.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		lex:         lex,
		extractor:   nlu.NewExtractor(lex),
		store:       store,
		templates:   defaultTemplates(),
		suggestions: defaultSuggestions(),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Respond builds the reply for one classified turn. Dynamic intents may
// await the directory; everything else is synchronous. Respond never
// returns an error — directory failures become an apology reply.
func (d *Dispatcher) Respond(
	ctx context.Context,
	intent lexicon.Intent,
	entities nlu.EntityBag,
	sentiment nlu.Sentiment,
	_ session.Context, // context is tracked across turns but not consumed here
	rawInput string,
) Reply {
	var text string
	if _, dynamic := dynamicIntents[intent]; dynamic {
		text = d.dynamic(ctx, intent, rawInput)
	} else {
		text = d.static(intent, entities)
	}

	// A frustrated user who we also failed to understand gets a softer
	// opening than the stock fallback.
	if intent == lexicon.IntentUnknown && sentiment == nlu.SentimentNegative {
		text = "Sorry about that. " + text
	}

	return Reply{
		Text:        text,
		Suggestions: d.suggest(intent),
	}
}

// static picks a template uniformly at random from the intent's pool
// (falling back to UNKNOWN's) and substitutes the organization code when
// one was extracted.
func (d *Dispatcher) static(intent lexicon.Intent, entities nlu.EntityBag) string {
	pool, ok := d.templates[intent]
	if !ok || len(pool) == 0 {
		pool = d.templates[lexicon.IntentUnknown]
	}

	d.rngMu.Lock()
	text := pool[d.rng.IntN(len(pool))]
	d.rngMu.Unlock()

	if orgs := entities[lexicon.EntityOrganization]; len(orgs) > 0 {
		if org, ok := d.lex.OrgAliases[strings.ToLower(orgs[0])]; ok {
			text = orgPlaceholder.ReplaceAllString(text, org.Code)
		}
	}
	return text
}

// suggest returns the follow-up list for intent, capped at maxSuggestions,
// falling back to UNKNOWN's list.
func (d *Dispatcher) suggest(intent lexicon.Intent) []string {
	s, ok := d.suggestions[intent]
	if !ok || len(s) == 0 {
		s = d.suggestions[lexicon.IntentUnknown]
	}
	if len(s) > maxSuggestions {
		s = s[:maxSuggestions]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// dynamic answers an intent that needs the campus directory.
func (d *Dispatcher) dynamic(ctx context.Context, intent lexicon.Intent, rawInput string) string {
	switch intent {
	case lexicon.IntentOrgOfficer:
		return d.officer(ctx, rawInput)
	case lexicon.IntentOrgOfficerList:
		return d.officerList(ctx, rawInput)
	case lexicon.IntentOrgCommittee:
		return d.committee(ctx, rawInput)
	case lexicon.IntentRoomStats:
		return d.roomStats(ctx)
	default:
		return apologyText
	}
}

func (d *Dispatcher) officer(ctx context.Context, rawInput string) string {
	org, orgOK := d.extractor.Organization(rawInput)
	if !orgOK {
		return d.clarifyOrganization()
	}
	position, posOK := d.extractor.Position(rawInput)
	if !posOK {
		return fmt.Sprintf(
			"Which position of %s are you asking about? For example the president, secretary, or treasurer.",
			org.Code,
		)
	}

	officer, err := d.store.Officer(ctx, org.Code, position)
	if err != nil {
		return apologyText
	}
	if officer == nil {
		return fmt.Sprintf("I couldn't find the %s for %s.", position, org.Code)
	}
	return fmt.Sprintf("The %s of %s is %s.", officer.PositionTitle, officer.OrgName, officer.Name)
}

func (d *Dispatcher) officerList(ctx context.Context, rawInput string) string {
	org, ok := d.extractor.Organization(rawInput)
	if !ok {
		return d.clarifyOrganization()
	}

	list, err := d.store.Officers(ctx, org.Code)
	if err != nil {
		return apologyText
	}
	if list == nil || len(list.Officers) == 0 {
		return fmt.Sprintf("I couldn't find any officers recorded for %s.", org.Code)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the officers of %s:\n", list.OrgName)
	for _, o := range list.Officers {
		fmt.Fprintf(&b, "• %s — %s\n", o.Position, o.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) committee(ctx context.Context, rawInput string) string {
	org, orgOK := d.extractor.Organization(rawInput)
	if !orgOK {
		return d.clarifyOrganization()
	}
	committee, comOK := d.extractor.Committee(rawInput)
	if !comOK {
		return fmt.Sprintf(
			"Which committee of %s do you mean? For example the finance, events, or membership committee.",
			org.Code,
		)
	}

	result, err := d.store.Committee(ctx, org.Code, committee)
	if err != nil {
		return apologyText
	}
	if result == nil || len(result.Members) == 0 {
		return fmt.Sprintf("I couldn't find the %s committee for %s.", committee, org.Code)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The %s of %s has %d members:\n", result.CommitteeTitle, result.OrgName, len(result.Members))
	for _, name := range result.Members {
		fmt.Fprintf(&b, "• %s\n", name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) roomStats(ctx context.Context) string {
	stats, err := d.store.RoomStatistics(ctx)
	if err != nil {
		return apologyText
	}
	if stats == nil {
		return "Room statistics aren't available right now."
	}
	return fmt.Sprintf(
		"There are %d rooms on record: %d occupied and %d vacant.",
		stats.Total, stats.Occupied, stats.Vacant,
	)
}

// clarifyOrganization is the prompt returned when a dynamic intent fired
// but no organization could be extracted from the input.
func (d *Dispatcher) clarifyOrganization() string {
	orgs := d.lex.Organizations()
	codes := make([]string, len(orgs))
	for i, o := range orgs {
		codes[i] = o.Code
	}
	return fmt.Sprintf(
		"Which organization do you mean? I know about: %s.",
		strings.Join(codes, ", "),
	)
}
