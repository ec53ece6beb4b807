package session

import (
	"log/slog"
	"sync"
	"time"
)

// defaultIdleTimeout is how long a session may sit without a turn before
// the manager discards its context.
const defaultIdleTimeout = 30 * time.Minute

// state is one live conversation. The per-session mutex serialises turns:
// a second message for the same session waits until the first has fully
// resolved, which is the pipeline's only ordering requirement.
type state struct {
	mu         sync.Mutex
	convo      Context
	lastActive time.Time // guarded by the owning Manager's mu
}

// Manager owns the conversation contexts of all live sessions, keyed by
// session ID. Sessions are created on first use and evicted after an idle
// timeout; nothing is persisted (a session's history dies with it).
//
// All methods are safe for concurrent use. Turns within one session are
// serialised; turns across different sessions run independently.
type Manager struct {
	idleAfter time.Duration
	gaugeAdd  func(delta int64)

	mu       sync.Mutex
	sessions map[string]*state
	done     chan struct{}
	stopOnce sync.Once
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithIdleTimeout sets how long a session may be idle before eviction.
// The default is 30 minutes.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleAfter = d
		}
	}
}

// WithActiveGauge registers a callback invoked with +1 when a session is
// created and -1 when one is evicted. Used to drive the active-sessions
// metric without coupling the manager to the metrics package.
func WithActiveGauge(add func(delta int64)) ManagerOption {
	return func(m *Manager) {
		m.gaugeAdd = add
	}
}

// NewManager creates a session manager and starts its eviction loop.
// Call [Manager.Stop] to stop the loop.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		idleAfter: defaultIdleTimeout,
		sessions:  make(map[string]*state),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	go m.evictLoop()
	return m
}

// Turn runs fn under the session's lock with the session's current context
// and stores the context fn returns. When fn returns an error the stored
// context is left unchanged. The session is created if it does not exist.
func (m *Manager) Turn(sessionID string, fn func(Context) (Context, error)) error {
	s := m.acquire(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.convo)
	if err != nil {
		return err
	}
	s.convo = next
	return nil
}

// Peek returns a snapshot of the session's context without creating the
// session. The second return is false when the session does not exist.
func (m *Manager) Peek(sessionID string) (Context, bool) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return Context{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convo, true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop stops the eviction loop. Live contexts are simply dropped.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// acquire returns the session for id, creating it if needed, and refreshes
// its idle clock.
func (m *Manager) acquire(id string) *state {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = &state{convo: NewContext()}
		m.sessions[id] = s
		if m.gaugeAdd != nil {
			m.gaugeAdd(1)
		}
		slog.Debug("session created", "session_id", id)
	}
	s.lastActive = time.Now()
	return s
}

func (m *Manager) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.evictIdle(now)
		}
	}
}

// evictIdle drops sessions idle for longer than the timeout. Sessions with
// a turn in flight are skipped and re-examined on the next tick.
func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if now.Sub(s.lastActive) < m.idleAfter {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		s.mu.Unlock()
		delete(m.sessions, id)
		if m.gaugeAdd != nil {
			m.gaugeAdd(-1)
		}
		slog.Debug("session evicted", "session_id", id, "turns", s.convo.TurnCount)
	}
}
