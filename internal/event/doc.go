// Package event provides the synchronous event bus that connects the editor
// host with the components that react to it.
//
// The host publishes typed events (selection moved, active view switched,
// document edited, configuration changed) from its single event loop.
// Delivery is synchronous: Publish returns after every matching handler has
// run, so handlers observe host state exactly as it was when the event was
// dispatched. Handlers run to completion one at a time.
//
// # Subscribing
//
//	sub, err := bus.SubscribeFunc(events.TopicSelectionChanged,
//	    func(ctx context.Context, ev any) error {
//	        // handle
//	        return nil
//	    })
//	...
//	_ = bus.Unsubscribe(sub)
//
// A cancelled subscription is never delivered to again, even if the
// cancellation happens while an event is being dispatched to an earlier
// subscriber.
//
// # Panics
//
// A panicking handler is recovered, counted in Stats, reported to the
// configured PanicHandler, and does not prevent delivery to other handlers.
package event
