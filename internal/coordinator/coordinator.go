// Package coordinator keeps the message and the decoration in step with the
// editor while the panel is visible.
//
// An active coordinator holds four bus subscriptions: selection changes,
// active editor changes, document changes and configuration changes. An
// inactive one holds none. The selection subscription is additionally
// dropped while a paste is running so the paste's own cursor movement is
// never treated as a new selection.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/jmbglens/internal/clipboard"
	"github.com/dshills/jmbglens/internal/decoration"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/message"
	"github.com/dshills/jmbglens/internal/panel"
	"github.com/dshills/jmbglens/internal/selection"
)

// ErrInactive is returned for panel events received while the panel is hidden.
var ErrInactive = errors.New("panel is hidden")

// ProjectURL is opened by the panel's external link.
const ProjectURL = "https://github.com/dshills/jmbglens"

// State is the coordinator lifecycle state.
type State int

// Coordinator states.
const (
	Inactive State = iota
	Active
)

// String returns the state name.
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Host is the editor the coordinator follows. *editor.Host satisfies it.
type Host interface {
	Bus() event.Bus
	ActiveView() *editor.View
}

// Paster runs the send-to-editor action. *paste.Reconciler satisfies it.
type Paster interface {
	Paste() error
	InProgress() bool
}

// Opener opens a URL for the user.
type Opener func(url string) error

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClipboard sets the clipboard used by the copy action.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(co *Coordinator) { co.clipboard = c }
}

// WithOpener sets how the external link is opened.
func WithOpener(o Opener) Option {
	return func(co *Coordinator) { co.opener = o }
}

// WithLogger sets the coordinator logger.
func WithLogger(l *logging.Logger) Option {
	return func(co *Coordinator) {
		if l != nil {
			co.log = l
		}
	}
}

type subscriptions struct {
	selection    event.Subscription
	activeEditor event.Subscription
	document     event.Subscription
	config       event.Subscription
}

// Coordinator routes editor events to the message model and the decoration.
type Coordinator struct {
	host      Host
	bus       event.Bus
	model     *message.Model
	deco      *decoration.Manager
	clipboard clipboard.Clipboard
	opener    Opener
	log       *logging.Logger

	mu     sync.Mutex
	state  State
	subs   subscriptions
	paster Paster
	panel  []event.Subscription
}

// New creates an inactive coordinator.
func New(host Host, model *message.Model, deco *decoration.Manager, opts ...Option) *Coordinator {
	c := &Coordinator{
		host:  host,
		bus:   host.Bus(),
		model: model,
		deco:  deco,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("coordinator")
	return c
}

// SetPaster sets the send-to-editor action. The paster usually depends on
// the coordinator, so it is wired after construction.
func (c *Coordinator) SetPaster(p Paster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paster = p
}

// State returns the lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsActive reports whether the coordinator holds its subscriptions.
func (c *Coordinator) IsActive() bool {
	return c.State() == Active
}

// Activate subscribes to all four streams and recomputes once to catch up
// on anything missed while inactive. Activating twice is a no-op. While a
// paste is in flight the selection stream stays detached and the catch-up
// is left to the reconciler's settle step.
func (c *Coordinator) Activate() error {
	pasting := c.pasteInProgress()

	c.mu.Lock()
	if c.state == Active {
		c.mu.Unlock()
		return nil
	}

	var subs subscriptions
	var err error
	if !pasting {
		subs.selection, err = c.subscribeSelection()
	}
	if err == nil {
		if subs.activeEditor, err = c.bus.Subscribe(events.TopicActiveEditorChanged,
			event.AsHandlerFunc(c.onActiveEditorChanged)); err == nil {
			if subs.document, err = c.bus.Subscribe(events.TopicDocumentChanged,
				event.AsHandlerFunc(c.onDocumentChanged)); err == nil {
				subs.config, err = c.bus.Subscribe(events.TopicConfigChanged,
					event.AsHandlerFunc(c.onConfigChanged))
			}
		}
	}
	if err != nil {
		c.unsubscribeAll(&subs)
		c.mu.Unlock()
		return fmt.Errorf("activate: %w", err)
	}

	c.subs = subs
	c.state = Active
	c.mu.Unlock()

	if pasting {
		c.log.Debug("activated during paste, selection stays detached")
		return nil
	}
	c.log.Debug("activated")
	c.Recompute()
	return nil
}

// Deactivate drops every subscription and releases the decoration.
// Deactivating twice is a no-op.
func (c *Coordinator) Deactivate() {
	c.mu.Lock()
	if c.state == Inactive {
		c.mu.Unlock()
		return
	}
	c.unsubscribeAll(&c.subs)
	c.state = Inactive
	c.mu.Unlock()

	c.deco.Release()
	c.log.Debug("deactivated")
}

// DetachSelection drops the selection subscription.
func (c *Coordinator) DetachSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs.selection == nil {
		return
	}
	c.unsubscribe(c.subs.selection)
	c.subs.selection = nil
	c.log.Debug("selection detached")
}

// AttachSelection restores the selection subscription. It does nothing
// while inactive or when already attached.
func (c *Coordinator) AttachSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active || c.subs.selection != nil {
		return nil
	}
	sub, err := c.subscribeSelection()
	if err != nil {
		return fmt.Errorf("attach selection: %w", err)
	}
	c.subs.selection = sub
	c.log.Debug("selection attached")
	return nil
}

// Subscriptions returns the live subscription handles, nil where not held.
func (c *Coordinator) Subscriptions() (selection, activeEditor, document, config event.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs.selection, c.subs.activeEditor, c.subs.document, c.subs.config
}

// Recompute rebuilds the message from the active view and decorates the
// extracted span.
func (c *Coordinator) Recompute() {
	view := c.host.ActiveView()
	if view == nil {
		c.model.Recompute("")
		return
	}
	res := selection.Extract(view)
	c.model.Recompute(res.Text)
	c.deco.Apply(view, res.Span)
}

// FollowPanel activates and deactivates the coordinator as the panel is
// shown, hidden and disposed. It returns a function that stops following.
func (c *Coordinator) FollowPanel() (func(), error) {
	vis, err := c.bus.Subscribe(events.TopicPanelVisibilityChanged,
		event.AsHandlerFunc(func(_ context.Context, ev event.Event[events.PanelVisibilityChanged]) error {
			if ev.Payload.Visible {
				return c.Activate()
			}
			c.Deactivate()
			return nil
		}), event.WithPriority(event.PriorityHigh))
	if err != nil {
		return nil, err
	}
	disposed, err := c.bus.Subscribe(events.TopicPanelDisposed,
		event.AsHandlerFunc(func(context.Context, event.Event[events.PanelDisposed]) error {
			c.Deactivate()
			return nil
		}), event.WithPriority(event.PriorityHigh))
	if err != nil {
		_ = c.bus.Unsubscribe(vis)
		return nil, err
	}

	c.mu.Lock()
	c.panel = append(c.panel, vis, disposed)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		subs := c.panel
		c.panel = nil
		c.mu.Unlock()
		for _, sub := range subs {
			c.unsubscribe(sub)
		}
	}, nil
}

// HandlePanelEvent implements panel.Handler. Events received while
// inactive do nothing and return ErrInactive.
func (c *Coordinator) HandlePanelEvent(ev panel.Event) error {
	if !c.IsActive() {
		c.log.Debug("ignoring %s while inactive", ev.Kind)
		return fmt.Errorf("%s: %w", ev.Kind, ErrInactive)
	}

	switch ev.Kind {
	case panel.KindCopy:
		return c.copyDecoded()
	case panel.KindSendToEditor:
		c.mu.Lock()
		p := c.paster
		c.mu.Unlock()
		if p == nil {
			return errors.New("send to editor: no paster configured")
		}
		return p.Paste()
	case panel.KindVisitExternalLink:
		if c.opener == nil {
			return nil
		}
		return c.opener(ProjectURL)
	default:
		return fmt.Errorf("%w: %q", panel.ErrUnknownEvent, ev.Kind)
	}
}

func (c *Coordinator) copyDecoded() error {
	if c.clipboard == nil {
		return nil
	}
	text, err := c.model.Last().Decoded.Pretty()
	if err != nil {
		return err
	}
	return c.clipboard.WriteText(text)
}

func (c *Coordinator) onSelectionChanged(_ context.Context, _ event.Event[events.SelectionChanged]) error {
	if c.pasteInProgress() {
		return nil
	}
	c.Recompute()
	return nil
}

func (c *Coordinator) onActiveEditorChanged(_ context.Context, _ event.Event[events.ActiveEditorChanged]) error {
	// Drop the marker first so it never lingers on the previous view.
	c.deco.Release()
	c.Recompute()
	return nil
}

func (c *Coordinator) onDocumentChanged(_ context.Context, ev event.Event[events.DocumentChanged]) error {
	// The only edit made while a paste is running is the paste itself.
	if c.pasteInProgress() {
		return nil
	}
	view := c.host.ActiveView()
	if view == nil || view.Document().ID() != ev.Payload.DocumentID {
		return nil
	}
	c.Recompute()
	return nil
}

func (c *Coordinator) onConfigChanged(_ context.Context, ev event.Event[events.ConfigChanged]) error {
	if !ev.Payload.Affects("decoration") {
		return nil
	}
	c.deco.RebuildStyle()
	c.deco.Refresh()
	return nil
}

func (c *Coordinator) pasteInProgress() bool {
	c.mu.Lock()
	p := c.paster
	c.mu.Unlock()
	return p != nil && p.InProgress()
}

func (c *Coordinator) subscribeSelection() (event.Subscription, error) {
	return c.bus.Subscribe(events.TopicSelectionChanged, event.AsHandlerFunc(c.onSelectionChanged))
}

func (c *Coordinator) unsubscribeAll(s *subscriptions) {
	for _, sub := range []event.Subscription{s.selection, s.activeEditor, s.document, s.config} {
		if sub != nil {
			c.unsubscribe(sub)
		}
	}
	*s = subscriptions{}
}

func (c *Coordinator) unsubscribe(sub event.Subscription) {
	if err := c.bus.Unsubscribe(sub); err != nil {
		c.log.Warn("unsubscribe %s: %v", sub.Topic(), err)
	}
}
