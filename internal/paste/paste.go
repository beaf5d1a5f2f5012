// Package paste inserts the decoded result of the current selection into
// the active document.
//
// The insert moves the selection, and the host reports that move like any
// other. The Reconciler detaches the selection subscription for the whole
// operation so the move is never mistaken for a user selection:
//
//	Idle -> Suspended -> Editing -> Settling -> Idle
//
// Suspended: selection subscription detached, decoration released.
// Editing:   cursor moved to end of line, result inserted in one edit.
// Settling:  waiting SettleDelay for the edit's own notifications to drain.
// Idle:      subscription re-attached, cursor restored, decoration rebuilt.
package paste

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/message"
)

// DefaultSettleDelay is how long the reconciler stays detached after
// submitting its edit. The host queues a selection-changed notification for
// the edit; if the subscription came back before that notification was
// dispatched, the reconciler would observe its own cursor move as a user
// selection and recompute the panel against the inserted JSON.
const DefaultSettleDelay = 100 * time.Millisecond

var (
	// ErrNoActiveEditor is returned when there is no view to paste into.
	ErrNoActiveEditor = errors.New("no active editor")

	// ErrPasteInProgress is returned when a paste is requested before the
	// previous one has settled.
	ErrPasteInProgress = errors.New("paste already in progress")
)

// State is a reconciler state.
type State int

// Reconciler states.
const (
	Idle State = iota
	Suspended
	Editing
	Settling
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Suspended:
		return "suspended"
	case Editing:
		return "editing"
	case Settling:
		return "settling"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Host is the editor the reconciler edits. *editor.Host satisfies it.
type Host interface {
	ActiveView() *editor.View
	IsVisible(v *editor.View) bool
	AfterFunc(d time.Duration, fn func()) clock.Timer
}

// Subscriptions controls the selection-changed subscription.
// AttachSelection is a no-op while the subscriptions are inactive.
type Subscriptions interface {
	IsActive() bool
	DetachSelection()
	AttachSelection() error
}

// Decorations is the decoration lifecycle the reconciler drives.
type Decorations interface {
	Release()
	RebuildStyle()
	Refresh()
}

// Source provides the message whose decoded fields are inserted.
type Source interface {
	Last() message.Message
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSettleDelay sets a fixed settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.delay = func() time.Duration { return d }
		}
	}
}

// WithSettleDelayFunc reads the settle delay at the start of every paste.
func WithSettleDelayFunc(fn func() time.Duration) Option {
	return func(r *Reconciler) {
		if fn != nil {
			r.delay = fn
		}
	}
}

// WithLogger sets the reconciler logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

// Reconciler performs paste operations one at a time.
type Reconciler struct {
	host   Host
	subs   Subscriptions
	deco   Decorations
	source Source
	delay  func() time.Duration
	log    *logging.Logger

	mu       sync.Mutex
	state    State
	view     *editor.View
	returnTo editor.Point
	lastErr  error
}

// New creates an idle reconciler.
func New(host Host, subs Subscriptions, deco Decorations, source Source, opts ...Option) *Reconciler {
	r := &Reconciler{
		host:   host,
		subs:   subs,
		deco:   deco,
		source: source,
		delay:  func() time.Duration { return DefaultSettleDelay },
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("paste")
	return r
}

// State returns the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// InProgress reports whether a paste has started and not yet settled.
func (r *Reconciler) InProgress() bool {
	return r.State() != Idle
}

// LastError returns the edit error of the most recent paste, if any.
func (r *Reconciler) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Paste inserts two newlines and the indented decoded fields after the
// current line of the active view. It returns once the edit is submitted;
// the reconciler returns to Idle after the settle delay. A failed edit is
// logged and settles the same way.
func (r *Reconciler) Paste() error {
	r.mu.Lock()
	if r.state != Idle {
		r.mu.Unlock()
		r.log.Warn("paste rejected: %s", ErrPasteInProgress)
		return ErrPasteInProgress
	}
	view := r.host.ActiveView()
	if view == nil {
		r.mu.Unlock()
		return ErrNoActiveEditor
	}
	r.view = view
	r.lastErr = nil
	r.transitionLocked(Suspended)
	r.mu.Unlock()

	r.subs.DetachSelection()
	r.deco.Release()

	r.mu.Lock()
	r.returnTo = view.Selection().Active
	r.transitionLocked(Editing)
	r.mu.Unlock()

	err := r.insert(view)
	if err != nil {
		r.log.Error("paste edit failed: %v", err)
	}

	delay := r.delay()
	r.mu.Lock()
	r.lastErr = err
	r.transitionLocked(Settling)
	r.mu.Unlock()

	r.host.AfterFunc(delay, r.settle)
	return nil
}

func (r *Reconciler) insert(view *editor.View) error {
	doc := view.Document()
	eol := doc.LineEnd(r.returnTo.Line)
	view.SetSelections(events.SelectionChangeCommand, editor.NewCursor(eol))

	body, err := r.source.Last().Decoded.Pretty()
	if err != nil {
		return fmt.Errorf("render decoded fields: %w", err)
	}
	return view.Edit(func(b *editor.EditBuilder) {
		b.Insert(eol, "\n\n"+body)
	})
}

// settle runs on the host loop once the delay has elapsed.
func (r *Reconciler) settle() {
	if err := r.subs.AttachSelection(); err != nil {
		r.log.Error("re-attach selection: %v", err)
	}

	r.mu.Lock()
	view, returnTo := r.view, r.returnTo
	r.view = nil
	r.transitionLocked(Idle)
	r.mu.Unlock()

	if r.host.IsVisible(view) {
		view.SetSelections(events.SelectionChangeCommand, editor.NewCursor(returnTo))
	}
	if r.subs.IsActive() {
		r.deco.RebuildStyle()
		r.deco.Refresh()
	}
}

func (r *Reconciler) transitionLocked(to State) {
	r.log.Debug("%s -> %s", r.state, to)
	r.state = to
}
