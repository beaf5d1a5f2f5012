package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/utils/clock"

	"github.com/dshills/jmbglens/internal/logging"
)

// DefaultDebounce coalesces the bursts of events editors produce when saving.
const DefaultDebounce = 150 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherClock sets the clock used for debouncing.
func WithWatcherClock(c clock.WithDelayedExecution) WatcherOption {
	return func(w *Watcher) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher calls a function when the configuration file changes.
// The parent directory is watched so atomic saves (write to a temp file,
// then rename) are seen.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	clock    clock.WithDelayedExecution
	log      *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending clock.Timer
	closed  bool
}

// NewWatcher watches path and calls onChange after each burst of changes.
func NewWatcher(path string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		clock:    clock.RealClock{},
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("config file %s: %s", ev.Op, ev.Name)
	w.schedule()
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	if w.debounce > 0 {
		w.pending = w.clock.AfterFunc(w.debounce, w.fire)
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	w.onChange()
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.pending = nil
	w.mu.Unlock()

	if !closed {
		w.onChange()
	}
}
