package editor

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
)

// Option configures a Host.
type Option func(*Host)

// WithClock sets the clock used by AfterFunc.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(h *Host) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the host logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// Host is the editor: it owns views, decoration handles and the event loop.
type Host struct {
	bus   event.Bus
	clock clock.WithDelayedExecution
	log   *logging.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	views   []*View
	active  *View
	decos   map[string]*DecorationType
	decoSeq uint64
}

// NewHost creates a host that publishes notifications on bus.
func NewHost(bus event.Bus, opts ...Option) *Host {
	h := &Host{
		bus:   bus,
		clock: clock.RealClock{},
		log:   logging.Nop(),
		wake:  make(chan struct{}, 1),
		decos: make(map[string]*DecorationType),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("host")
	return h
}

// Bus returns the event bus notifications are published on.
func (h *Host) Bus() event.Bus {
	return h.bus
}

// Open creates a visible view for doc and makes it active.
func (h *Host) Open(doc *Document) *View {
	v := newView(h, doc)

	h.mu.Lock()
	h.views = append(h.views, v)
	h.mu.Unlock()

	h.Show(v)
	return v
}

// Show makes v the active view. Showing the already active view is a no-op.
func (h *Host) Show(v *View) {
	h.mu.Lock()
	if h.active == v {
		h.mu.Unlock()
		return
	}
	prev := h.active
	h.active = v
	h.mu.Unlock()

	h.Notify(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{
		ViewID:         viewID(v),
		PreviousViewID: viewID(prev),
	}, "editor"))
}

// Close hides v and drops its decorations. If v was active, the most
// recently opened remaining view becomes active, or none.
func (h *Host) Close(v *View) {
	h.mu.Lock()
	idx := -1
	for i, view := range h.views {
		if view == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		h.mu.Unlock()
		return
	}
	h.views = append(h.views[:idx], h.views[idx+1:]...)
	wasActive := h.active == v
	var next *View
	if wasActive && len(h.views) > 0 {
		next = h.views[len(h.views)-1]
	}
	h.mu.Unlock()

	v.clearDecorations()

	if wasActive {
		if next != nil {
			h.Show(next)
			return
		}
		h.mu.Lock()
		h.active = nil
		h.mu.Unlock()
		h.Notify(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{
			PreviousViewID: viewID(v),
		}, "editor"))
	}
}

// ActiveView returns the active view, or nil if there is none.
func (h *Host) ActiveView() *View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// VisibleViews returns the views currently shown.
func (h *Host) VisibleViews() []*View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*View(nil), h.views...)
}

// IsVisible reports whether v is currently shown.
func (h *Host) IsVisible(v *View) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, view := range h.views {
		if view == v {
			return true
		}
	}
	return false
}

func (h *Host) viewsFor(doc *Document) []*View {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*View
	for _, v := range h.views {
		if v.doc == doc {
			out = append(out, v)
		}
	}
	return out
}

// CreateDecorationType allocates a decoration handle with style.
func (h *Host) CreateDecorationType(style DecorationStyle) *DecorationType {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.decoSeq++
	dt := newDecorationType(h, h.decoSeq, style)
	h.decos[dt.id] = dt
	return dt
}

// LiveDecorationTypes returns the handles that have not been disposed.
func (h *Host) LiveDecorationTypes() []*DecorationType {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*DecorationType, 0, len(h.decos))
	for _, dt := range h.decos {
		out = append(out, dt)
	}
	return out
}

func (h *Host) releaseDecorationType(dt *DecorationType) {
	h.mu.Lock()
	delete(h.decos, dt.id)
	views := append([]*View(nil), h.views...)
	h.mu.Unlock()

	for _, v := range views {
		v.dropDecoration(dt.id)
	}
}

// Post queues fn to run on the event loop. It is safe to call from any goroutine.
func (h *Host) Post(fn func()) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Notify queues ev for publication on the bus from the event loop.
func (h *Host) Notify(ev any) {
	h.Post(func() {
		if err := h.bus.Publish(context.Background(), ev); err != nil {
			h.log.Warn("publish failed: %v", err)
		}
	})
}

// AfterFunc runs fn on the event loop once d has elapsed on the host clock.
func (h *Host) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return h.clock.AfterFunc(d, func() { h.Post(fn) })
}

// Clock returns the host clock.
func (h *Host) Clock() clock.WithDelayedExecution {
	return h.clock
}

// RunPending runs queued work, including work queued while draining, until
// the queue is empty. It returns the number of functions run.
func (h *Host) RunPending() int {
	n := 0
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			return n
		}
		fn := h.queue[0]
		h.queue[0] = nil
		h.queue = h.queue[1:]
		h.mu.Unlock()

		fn()
		n++
	}
}

// Pending returns the number of queued functions.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// Run drives the event loop until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	for {
		h.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
		}
	}
}

func viewID(v *View) string {
	if v == nil {
		return ""
	}
	return v.id
}
