package event

import (
	"context"
	"sync/atomic"

	"github.com/dshills/jmbglens/internal/event/topic"
)

// Bus is the event bus interface.
type Bus interface {
	// Publish delivers an event to every matching subscription before returning.
	Publish(ctx context.Context, event any) error

	// Subscription
	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Pause drops events until Resume is called.
	Pause()
	Resume()
	IsPaused() bool

	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	registry *Registry
	config   busConfig
	paused   atomic.Bool

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		registry: NewRegistry(),
		config:   config,
	}
}

// Pause temporarily stops event delivery.
// Events published while paused are dropped.
func (b *bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *bus) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if the bus is paused.
func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish delivers event synchronously to all matching subscriptions.
// Handler errors and panics are reported through the configured callbacks
// and never abort delivery to the remaining subscriptions.
func (b *bus) Publish(ctx context.Context, event any) error {
	if b.paused.Load() {
		return nil
	}

	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	subs := b.registry.MatchActive(eventTopic)
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		// A handler earlier in this loop may have cancelled sub.
		if !sub.shouldDeliver(event) {
			continue
		}

		if err := b.deliver(ctx, sub, eventTopic, event); err != nil {
			b.config.errorHandler(err)
			continue
		}
		b.eventsDelivered.Add(1)

		if sub.config.Once {
			sub.Cancel()
			b.registry.Remove(sub.ID())
		}
	}

	return nil
}

// deliver runs a single handler, converting panics into PanicError.
func (b *bus) deliver(ctx context.Context, sub *subscription, eventTopic topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.config.panicHandler(event, sub, r)
			err = &PanicError{SubscriptionID: sub.ID(), Topic: eventTopic.String(), Value: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{SubscriptionID: sub.ID(), Topic: eventTopic.String(), Err: herr}
	}
	return nil
}

// Subscribe creates a new subscription for the given topic pattern.
// This method is safe to call concurrently.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(generateID(), topicPattern, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
// This method is safe to call concurrently.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}
