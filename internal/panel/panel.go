// Package panel is the two-way channel between jmbglens and its side panel.
//
// Outbound, the channel carries the current message as JSON. Inbound, the
// panel can request one of three actions: copy, sendToEditor and
// visitExternalLink. Visibility changes are published as events so the
// coordinator can follow them.
package panel

import (
	"fmt"
	"sync"

	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/message"
)

// Sink renders serialized messages.
type Sink interface {
	Render(data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(data []byte) error

// Render implements Sink.
func (f SinkFunc) Render(data []byte) error {
	return f(data)
}

// Notifier receives panel lifecycle events. *editor.Host satisfies it.
type Notifier interface {
	Notify(ev any)
}

// Option configures a Channel.
type Option func(*Channel)

// WithSnapshots persists every posted message to store.
func WithSnapshots(store *SnapshotStore) Option {
	return func(c *Channel) { c.snapshots = store }
}

// WithNotifier sets where visibility events are sent.
func WithNotifier(n Notifier) Option {
	return func(c *Channel) { c.notifier = n }
}

// WithLogger sets the channel logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.log = l
		}
	}
}

// Channel connects the message model to a panel.
type Channel struct {
	sink      Sink
	snapshots *SnapshotStore
	notifier  Notifier
	log       *logging.Logger

	mu       sync.Mutex
	handler  Handler
	visible  bool
	disposed bool
	last     []byte
}

// New creates a hidden channel rendering to sink.
func New(sink Sink, opts ...Option) *Channel {
	c := &Channel{
		sink: sink,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("panel")
	return c
}

// SetHandler sets the receiver of inbound events.
func (c *Channel) SetHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// Post serializes msg, saves the snapshot and renders it if the panel is
// visible. Hidden panels render the latest message when shown.
func (c *Channel) Post(msg message.Message) error {
	data, err := msg.MarshalJSON()
	if err != nil {
		return fmt.Errorf("serialize message: %w", err)
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	c.last = data
	visible := c.visible
	c.mu.Unlock()

	if c.snapshots != nil {
		if err := c.snapshots.Save(data); err != nil {
			c.log.Warn("snapshot: %v", err)
		}
	}
	if !visible {
		return nil
	}
	return c.sink.Render(data)
}

// Observe is a message.Observer that posts every message.
func (c *Channel) Observe(msg message.Message) {
	if err := c.Post(msg); err != nil {
		c.log.Warn("post: %v", err)
	}
}

// Restore renders the saved snapshot, if any. It returns false when there
// was nothing to restore.
func (c *Channel) Restore() (bool, error) {
	if c.snapshots == nil {
		return false, nil
	}
	data, err := c.snapshots.Load()
	if err != nil || data == nil {
		return false, err
	}
	if _, err := message.Parse(data); err != nil {
		return false, fmt.Errorf("snapshot: %w", err)
	}

	c.mu.Lock()
	c.last = data
	visible := c.visible && !c.disposed
	c.mu.Unlock()

	if visible {
		return true, c.sink.Render(data)
	}
	return true, nil
}

// Last returns the most recently posted serialized message.
func (c *Channel) Last() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Receive parses an inbound JSON event and dispatches it.
func (c *Channel) Receive(data []byte) error {
	ev, err := ParseEvent(data)
	if err != nil {
		return err
	}
	return c.Dispatch(ev)
}

// Dispatch hands ev to the handler.
func (c *Channel) Dispatch(ev Event) error {
	if !ev.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	c.mu.Lock()
	h := c.handler
	disposed := c.disposed
	c.mu.Unlock()

	if disposed || h == nil {
		c.log.Debug("dropping %s: no handler", ev.Kind)
		return nil
	}
	return h.HandlePanelEvent(ev)
}

// Visible reports whether the panel is shown.
func (c *Channel) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// SetVisible shows or hides the panel. Showing renders the latest message.
func (c *Channel) SetVisible(visible bool) {
	c.mu.Lock()
	if c.disposed || c.visible == visible {
		c.mu.Unlock()
		return
	}
	c.visible = visible
	last := c.last
	c.mu.Unlock()

	if visible && last != nil {
		if err := c.sink.Render(last); err != nil {
			c.log.Warn("render: %v", err)
		}
	}
	c.notify(event.NewEvent(events.TopicPanelVisibilityChanged, events.PanelVisibilityChanged{Visible: visible}, "panel"))
}

// Dispose destroys the panel. Further posts and events are dropped.
func (c *Channel) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.visible = false
	c.mu.Unlock()

	c.notify(event.NewEvent(events.TopicPanelDisposed, events.PanelDisposed{}, "panel"))
}

func (c *Channel) notify(ev any) {
	if c.notifier != nil {
		c.notifier.Notify(ev)
	}
}
