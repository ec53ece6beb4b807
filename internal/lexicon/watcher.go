package lexicon

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Watcher monitors a lexicon overlay file for changes and rebuilds the
// merged lexicon when the file is modified. It uses polling (not fsnotify)
// to keep dependencies minimal.
//
// An invalid or unreadable overlay never replaces the last good lexicon;
// the error is logged and the previous tables stay in effect.
type Watcher struct {
	path     string
	base     *Lexicon
	interval time.Duration
	onChange func(old, new *Lexicon)
	onError  func(err error)

	mu       sync.Mutex
	current  *Lexicon
	done     chan struct{}
	stopOnce sync.Once

	// last known file state for change detection
	lastMtime time.Time
	lastHash  [sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval. The default is 5 seconds.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithReloadErrorHook registers a callback invoked each time a reload
// attempt fails and the previous lexicon is kept. Used to count failed
// reloads without importing the metrics package here.
func WithReloadErrorHook(fn func(err error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates an overlay file watcher over the given base lexicon.
// It applies the overlay immediately and starts polling in a background
// goroutine. onChange is invoked with the previous and new lexicon whenever
// the overlay content changes and produces a valid merged lexicon.
func NewWatcher(path string, base *Lexicon, onChange func(old, new *Lexicon), opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		base:     base,
		interval: 5 * time.Second,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	lex, hash, mtime, err := w.loadAndHash()
	if err != nil {
		return nil, fmt.Errorf("lexicon: watcher initial load: %w", err)
	}
	w.current = lex
	w.lastHash = hash
	w.lastMtime = mtime

	go w.poll()
	return w, nil
}

// Current returns the most recently built valid lexicon.
func (w *Watcher) Current() *Lexicon {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *Watcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check re-reads the overlay file and, if its content changed and the merge
// succeeds, swaps the current lexicon and calls onChange.
func (w *Watcher) check() {
	// Quick mtime check first to avoid hashing unchanged files.
	info, err := os.Stat(w.path)
	if err != nil {
		w.reloadFailed(err)
		return
	}

	w.mu.Lock()
	mtime := w.lastMtime
	w.mu.Unlock()

	if info.ModTime().Equal(mtime) {
		return
	}

	lex, hash, newMtime, err := w.loadAndHash()
	if err != nil {
		w.reloadFailed(err)
		return
	}

	w.mu.Lock()

	if hash == w.lastHash {
		// File was touched but content is identical.
		w.lastMtime = newMtime
		w.mu.Unlock()
		return
	}

	old := w.current
	w.current = lex
	w.lastHash = hash
	w.lastMtime = newMtime
	w.mu.Unlock()

	slog.Info("lexicon watcher: overlay reloaded", "path", w.path)

	// Invoke the callback outside the lock so it can safely call Current().
	if w.onChange != nil {
		w.onChange(old, lex)
	}
}

// reloadFailed logs a failed reload attempt and notifies the error hook.
// The previous lexicon stays in effect.
func (w *Watcher) reloadFailed(err error) {
	slog.Warn("lexicon watcher: keeping previous lexicon", "path", w.path, "err", err)
	if w.onError != nil {
		w.onError(err)
	}
}

// loadAndHash reads the overlay file, applies it to the base lexicon, and
// returns the merged lexicon alongside the file's SHA-256 hash and
// modification time.
func (w *Watcher) loadAndHash() (*Lexicon, [sha256.Size]byte, time.Time, error) {
	var zeroHash [sha256.Size]byte

	f, err := os.Open(w.path)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	hash := sha256.Sum256(data)

	ov, err := LoadOverlayFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	lex, err := ov.Apply(w.base)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	return lex, hash, info.ModTime(), nil
}
