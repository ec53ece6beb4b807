package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kabalen/tanong/internal/directory"
)

// Guarded wraps a [directory.Store] with a shared [Breaker] and panic
// recovery. Every lookup either returns the inner store's result or a
// plain error — a panicking driver or an open circuit surfaces as an
// ordinary lookup failure the dispatcher already knows how to phrase.
type Guarded struct {
	inner   directory.Store
	breaker *Breaker

	// onError, when set, is invoked with the failing operation name. Used
	// to drive the lookup-error metric without importing the metrics
	// package here.
	onError func(op string)

	// onLatency, when set, receives the duration of every lookup that
	// reached the inner store, successful or not. Drives the
	// lookup-duration histogram.
	onLatency func(op string, d time.Duration)
}

// GuardOption configures a [Guarded] store.
type GuardOption func(*Guarded)

// WithBreaker replaces the default breaker.
func WithBreaker(b *Breaker) GuardOption {
	return func(g *Guarded) {
		g.breaker = b
	}
}

// WithErrorHook registers a callback invoked with the operation name each
// time a lookup fails.
func WithErrorHook(fn func(op string)) GuardOption {
	return func(g *Guarded) {
		g.onError = fn
	}
}

// WithLatencyHook registers a callback invoked with the operation name and
// elapsed time of each lookup the breaker lets through. Lookups rejected by
// an open breaker are not timed.
func WithLatencyHook(fn func(op string, d time.Duration)) GuardOption {
	return func(g *Guarded) {
		g.onLatency = fn
	}
}

// Guard wraps store. The default breaker opens after 5 consecutive
// failures and cools down for 30 seconds.
func Guard(store directory.Store, opts ...GuardOption) *Guarded {
	g := &Guarded{
		inner:   store,
		breaker: NewBreaker(BreakerConfig{Name: "directory"}),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Compile-time interface check.
var _ directory.Store = (*Guarded)(nil)

func (g *Guarded) Officer(ctx context.Context, orgCode, positionID string) (*directory.Officer, error) {
	return call(g, "officer", func() (*directory.Officer, error) {
		return g.inner.Officer(ctx, orgCode, positionID)
	})
}

func (g *Guarded) Officers(ctx context.Context, orgCode string) (*directory.OfficerList, error) {
	return call(g, "officers", func() (*directory.OfficerList, error) {
		return g.inner.Officers(ctx, orgCode)
	})
}

func (g *Guarded) Committee(ctx context.Context, orgCode, committeeID string) (*directory.Committee, error) {
	return call(g, "committee", func() (*directory.Committee, error) {
		return g.inner.Committee(ctx, orgCode, committeeID)
	})
}

func (g *Guarded) RoomStatistics(ctx context.Context) (*directory.RoomStats, error) {
	return call(g, "room_statistics", func() (*directory.RoomStats, error) {
		return g.inner.RoomStatistics(ctx)
	})
}

// Ping bypasses the breaker so readiness probes report the real state of
// the backend rather than the breaker's.
func (g *Guarded) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

// call funnels one lookup through the breaker with panic recovery.
func call[T any](g *Guarded, op string, fn func() (*T, error)) (*T, error) {
	var result *T
	err := g.breaker.Do(func() (err error) {
		start := time.Now()
		defer func() {
			if g.onLatency != nil {
				g.onLatency(op, time.Since(start))
			}
			if r := recover(); r != nil {
				err = fmt.Errorf("directory %s: panic: %v", op, r)
			}
		}()
		result, err = fn()
		return err
	})
	if err != nil {
		if g.onError != nil {
			g.onError(op)
		}
		slog.Warn("directory lookup failed", "op", op, "err", err)
		return nil, err
	}
	return result, nil
}
