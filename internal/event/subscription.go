package event

import (
	"sync/atomic"

	"github.com/dshills/jmbglens/internal/event/topic"
)

// SubscriptionState tracks whether a subscriber still receives events.
type SubscriptionState int32

// Subscription states. Only active subscriptions receive events.
const (
	SubscriptionStateActive SubscriptionState = iota
	SubscriptionStatePaused
	SubscriptionStateCancelled
)

// String returns the lowercase state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Subscription is the handle returned by Bus.Subscribe. Cancelling it is
// the only way to detach a handler; panel and coordinator components
// cancel theirs on Dispose.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	State() SubscriptionState
	IsActive() bool
	Pause()
	Resume()
	Cancel()
}

// SubscriptionConfig holds per-subscriber delivery settings.
type SubscriptionConfig struct {
	Priority Priority   // lower runs first
	Filter   FilterFunc // nil delivers everything
	Once     bool       // cancel after first delivery
}

// DefaultSubscriptionConfig delivers every event at PriorityNormal.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption adjusts a SubscriptionConfig.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority orders delivery; lower priorities run first.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

// WithFilter delivers only events for which f returns true.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

type subscription struct {
	id      string
	seq     uint64
	topic   topic.Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
}

func newSubscription(id string, t topic.Topic, h Handler, opts ...SubscriptionOption) *subscription {
	cfg := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &subscription{id: id, topic: t, handler: h, config: cfg}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.topic }

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Pause has no effect on a cancelled subscription.
func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

func (s *subscription) shouldDeliver(ev any) bool {
	if !s.IsActive() {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(ev)
}
