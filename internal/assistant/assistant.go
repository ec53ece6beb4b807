// Package assistant wires the text-understanding pipeline into a single
// entry point. One [Assistant.Turn] call takes a raw utterance and the
// caller's conversation context and returns the finished reply together
// with the successor context.
//
// All methods are safe for concurrent use. The vocabulary can be swapped at
// runtime via [Assistant.SwapLexicon]; in-flight turns finish on the
// pipeline they started with.
package assistant

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/kabalen/tanong/internal/directory"
	"github.com/kabalen/tanong/internal/lexicon"
	"github.com/kabalen/tanong/internal/nlu"
	"github.com/kabalen/tanong/internal/observe"
	"github.com/kabalen/tanong/internal/respond"
	"github.com/kabalen/tanong/internal/session"
)

// Reply is the complete outcome of one conversational turn.
type Reply struct {
	// Text is the rendered answer shown to the user.
	Text string

	// Suggestions are follow-up chips the client may render, at most four.
	Suggestions []string

	// Intent is the classified intent behind the utterance.
	Intent lexicon.Intent

	// Confidence is the classifier's score for Intent in [0, 1].
	Confidence float64

	// Entities holds everything the extractor found in the raw utterance.
	Entities nlu.EntityBag

	// Sentiment is the utterance's emotional tone.
	Sentiment nlu.Sentiment

	// NewContext is the conversation context after folding in this turn.
	// The caller stores it and passes it back on the next turn.
	NewContext session.Context
}

// pipeline bundles the stages built from one lexicon snapshot so a swap
// replaces them atomically.
type pipeline struct {
	lex        *lexicon.Lexicon
	normalizer *nlu.Normalizer
	extractor  *nlu.Extractor
	classifier *nlu.Classifier
	analyzer   *nlu.Analyzer
	dispatcher *respond.Dispatcher
}

// Assistant is the conversational engine for the campus portal.
type Assistant struct {
	store      directory.Store
	metrics    *observe.Metrics
	thresholds nlu.Thresholds
	respondOps []respond.Option

	mu sync.RWMutex
	p  *pipeline
}

// Option configures an [Assistant].
type Option func(*Assistant)

// WithMetrics sets the metrics instance used for instrumentation. Defaults
// to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// WithThresholds overrides the classifier's scoring thresholds.
func WithThresholds(th nlu.Thresholds) Option {
	return func(a *Assistant) {
		a.thresholds = th
	}
}

// WithRespondOptions forwards options to the response dispatcher, e.g. a
// seeded random source for deterministic template selection in tests.
func WithRespondOptions(opts ...respond.Option) Option {
	return func(a *Assistant) {
		a.respondOps = append(a.respondOps, opts...)
	}
}

// New creates an [Assistant] over the given vocabulary and directory store.
func New(lex *lexicon.Lexicon, store directory.Store, opts ...Option) *Assistant {
	a := &Assistant{
		store:      store,
		thresholds: nlu.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	a.p = a.build(lex)
	return a
}

// build constructs all pipeline stages from one lexicon snapshot.
func (a *Assistant) build(lex *lexicon.Lexicon) *pipeline {
	return &pipeline{
		lex:        lex,
		normalizer: nlu.NewNormalizer(lex),
		extractor:  nlu.NewExtractor(lex),
		classifier: nlu.NewClassifier(lex,
			nlu.WithThresholds(a.thresholds),
			nlu.WithOverrideRules(nlu.OrganizationOfficerRule),
		),
		analyzer:   nlu.NewAnalyzer(lex),
		dispatcher: respond.New(lex, a.store, a.respondOps...),
	}
}

// SwapLexicon rebuilds the pipeline from a new vocabulary. Intended as the
// change callback of a [lexicon.Watcher]; turns already in flight keep the
// snapshot they started with.
func (a *Assistant) SwapLexicon(lex *lexicon.Lexicon) {
	p := a.build(lex)
	a.mu.Lock()
	a.p = p
	a.mu.Unlock()
}

// Lexicon returns the vocabulary the pipeline currently runs on.
func (a *Assistant) Lexicon() *lexicon.Lexicon {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.p.lex
}

// Turn processes one raw utterance against the given conversation context.
// The returned [Reply] carries the successor context; Turn itself never
// mutates convo. Directory failures never surface as errors — the
// dispatcher renders an apology instead.
func (a *Assistant) Turn(ctx context.Context, rawInput string, convo session.Context) Reply {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "assistant.turn")
	defer span.End()

	a.mu.RLock()
	p := a.p
	a.mu.RUnlock()

	normalized := p.normalizer.Normalize(rawInput)

	classifyStart := time.Now()
	res := p.classifier.Classify(rawInput)
	a.metrics.ClassifyDuration.Record(ctx, time.Since(classifyStart).Seconds(),
		metric.WithAttributes(observe.Attr("intent", string(res.Intent))))

	entities := p.extractor.Extract(rawInput)
	sentiment := p.analyzer.Analyze(normalized)

	reply := p.dispatcher.Respond(ctx, res.Intent, entities, sentiment, convo, rawInput)

	next := session.Update(convo, session.TurnResult{
		Intent:   res.Intent,
		Entities: entities,
	})

	a.metrics.RecordTurn(ctx, string(res.Intent), string(sentiment))
	if res.Intent == lexicon.IntentUnknown {
		a.metrics.UnknownTurns.Add(ctx, 1)
	}
	a.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())

	observe.Logger(ctx).Debug("turn processed",
		"intent", string(res.Intent),
		"confidence", res.Confidence,
		"sentiment", string(sentiment),
		"turn", next.TurnCount,
	)

	return Reply{
		Text:        reply.Text,
		Suggestions: reply.Suggestions,
		Intent:      res.Intent,
		Confidence:  res.Confidence,
		Entities:    entities,
		Sentiment:   sentiment,
		NewContext:  next,
	}
}
