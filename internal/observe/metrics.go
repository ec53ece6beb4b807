// Package observe provides application-wide observability primitives for
// Tanong: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Tanong metrics.
const meterName = "github.com/kabalen/tanong"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// ClassifyDuration tracks intent classification latency.
	ClassifyDuration metric.Float64Histogram

	// TurnDuration tracks end-to-end turn processing latency, from raw
	// utterance in to reply out.
	TurnDuration metric.Float64Histogram

	// LookupDuration tracks directory lookup latency.
	LookupDuration metric.Float64Histogram

	// --- Counters ---

	// Turns counts processed turns. Use with attributes:
	//   attribute.String("intent", ...), attribute.String("sentiment", ...)
	Turns metric.Int64Counter

	// UnknownTurns counts turns that fell through to the unknown intent.
	UnknownTurns metric.Int64Counter

	// LexiconReloads counts vocabulary overlay reloads by status.
	LexiconReloads metric.Int64Counter

	// --- Error counters ---

	// LookupErrors counts directory lookup failures. Use with attribute:
	//   attribute.String("op", ...)
	LookupErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions metric.Int64UpDownCounter

	// ActiveWebsockets tracks the number of open websocket connections.
	ActiveWebsockets metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for a text pipeline that should answer well under a second.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ClassifyDuration, err = m.Float64Histogram("tanong.classify.duration",
		metric.WithDescription("Latency of intent classification."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TurnDuration, err = m.Float64Histogram("tanong.turn.duration",
		metric.WithDescription("End-to-end turn processing latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LookupDuration, err = m.Float64Histogram("tanong.lookup.duration",
		metric.WithDescription("Latency of campus directory lookups."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Turns, err = m.Int64Counter("tanong.turns",
		metric.WithDescription("Total processed turns by intent and sentiment."),
	); err != nil {
		return nil, err
	}
	if met.UnknownTurns, err = m.Int64Counter("tanong.turns.unknown",
		metric.WithDescription("Total turns classified as unknown."),
	); err != nil {
		return nil, err
	}
	if met.LexiconReloads, err = m.Int64Counter("tanong.lexicon.reloads",
		metric.WithDescription("Total vocabulary overlay reloads by status."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.LookupErrors, err = m.Int64Counter("tanong.lookup.errors",
		metric.WithDescription("Total directory lookup failures by operation."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("tanong.active_sessions",
		metric.WithDescription("Number of live conversation sessions."),
	); err != nil {
		return nil, err
	}
	if met.ActiveWebsockets, err = m.Int64UpDownCounter("tanong.active_websockets",
		metric.WithDescription("Number of open websocket connections."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("tanong.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTurn is a convenience method that records a processed turn with the
// standard attribute set.
func (m *Metrics) RecordTurn(ctx context.Context, intent, sentiment string) {
	m.Turns.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("sentiment", sentiment),
		),
	)
}

// RecordLookupDuration records the latency of one directory lookup for the
// named operation.
func (m *Metrics) RecordLookupDuration(ctx context.Context, op string, d time.Duration) {
	m.LookupDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("op", op)),
	)
}

// RecordLookupError is a convenience method that records a directory lookup
// failure for the named operation.
func (m *Metrics) RecordLookupError(ctx context.Context, op string) {
	m.LookupErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", op)),
	)
}

// RecordLexiconReload records a vocabulary overlay reload attempt.
func (m *Metrics) RecordLexiconReload(ctx context.Context, status string) {
	m.LexiconReloads.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
