// Package resilience keeps directory failures away from the conversation
// surface. [Breaker] is a three-state circuit breaker (closed → open →
// half-open) and [Guarded] wraps a [directory.Store] so that repeated
// database failures stop hammering the backend while the dispatcher keeps
// serving its degraded replies.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrOpen is returned by [Breaker.Do] when the breaker is open and the
// cool-down has not yet elapsed.
var ErrOpen = errors.New("resilience: circuit open")

// BreakerConfig holds the tuning knobs for a [Breaker].
type BreakerConfig struct {
	// Name labels the breaker in log messages.
	Name string

	// Trip is the number of consecutive failures that opens the breaker.
	// Default: 5.
	Trip int

	// CoolDown is how long the breaker stays open before allowing a probe
	// call. Default: 30s.
	CoolDown time.Duration
}

// Breaker is a three-state circuit breaker. While closed it forwards every
// call; after Trip consecutive failures it opens and rejects calls with
// [ErrOpen]; once the cool-down elapses a single probe call is let through,
// and its outcome decides whether the breaker closes again or re-opens.
type Breaker struct {
	name     string
	trip     int
	coolDown time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool
	probing  bool
}

// NewBreaker creates a [Breaker], replacing zero-value config fields with
// defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Trip <= 0 {
		cfg.Trip = 5
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	return &Breaker{
		name:     cfg.Name,
		trip:     cfg.Trip,
		coolDown: cfg.CoolDown,
	}
}

// Do runs fn if the breaker allows it, returning [ErrOpen] otherwise.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.open {
		if time.Since(b.openedAt) < b.coolDown || b.probing {
			b.mu.Unlock()
			return ErrOpen
		}
		// Cool-down elapsed: admit exactly one probe.
		b.probing = true
		slog.Info("circuit breaker probing", "name", b.name)
	}
	probe := b.probing
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if probe || (!b.open && b.failures >= b.trip) {
			b.open = true
			b.probing = false
			b.openedAt = time.Now()
			slog.Warn("circuit breaker opened", "name", b.name, "consecutive_failures", b.failures)
		}
		return err
	}

	if probe {
		slog.Info("circuit breaker closed after successful probe", "name", b.name)
	}
	b.open = false
	b.probing = false
	b.failures = 0
	return nil
}

// Open reports whether the breaker is currently rejecting calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && (time.Since(b.openedAt) < b.coolDown || b.probing)
}

// Reset forces the breaker back to the closed state.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.probing = false
	b.failures = 0
	slog.Info("circuit breaker manually reset", "name", b.name)
}
