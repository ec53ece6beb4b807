package observe

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// spanRecorder returns a TracerProvider backed by an in-memory exporter so
// tests can inspect finished spans.
func spanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exp
}

func TestTraceID(t *testing.T) {
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID on a bare context = %q, want empty", got)
	}

	tp, _ := spanRecorder(t)
	ctx, span := tp.Tracer("test").Start(context.Background(), "turn")
	defer span.End()

	id := TraceID(ctx)
	if len(id) != 32 {
		t.Fatalf("TraceID length = %d, want 32 hex chars", len(id))
	}
	if strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("TraceID %q is not lowercase hex", id)
	}
}

func TestTraceID_DistinctPerSpan(t *testing.T) {
	tp, _ := spanRecorder(t)
	tracer := tp.Tracer("test")

	seen := make(map[string]struct{}, 50)
	for range 50 {
		ctx, span := tracer.Start(context.Background(), "turn")
		id := TraceID(ctx)
		span.End()
		if _, dup := seen[id]; dup {
			t.Fatalf("trace ID %s issued twice", id)
		}
		seen[id] = struct{}{}
	}
}

func TestStartSpan(t *testing.T) {
	tp, exp := spanRecorder(t)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "classify")
	if TraceID(ctx) == "" {
		t.Error("StartSpan returned a context with no trace ID")
	}
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].Name != "classify" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "classify")
	}
	if got := spans[0].InstrumentationScope.Name; got != tracerName {
		t.Errorf("instrumentation scope = %q, want %q", got, tracerName)
	}
}

func TestLogger(t *testing.T) {
	tp, _ := spanRecorder(t)

	var buf strings.Builder
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "turn")
	defer span.End()

	Logger(ctx).Info("turn handled")
	line := buf.String()
	if !strings.Contains(line, "trace_id="+TraceID(ctx)) {
		t.Errorf("log line missing trace_id: %s", line)
	}
	if !strings.Contains(line, "span_id=") {
		t.Errorf("log line missing span_id: %s", line)
	}

	buf.Reset()
	Logger(context.Background()).Info("no span")
	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("log line without a span should carry no trace_id: %s", buf.String())
	}
}
