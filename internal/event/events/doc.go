// Package events defines the topics and payloads the editor host publishes.
//
// Payloads identify what changed; subscribers read the current state back
// from the host rather than trusting a copy carried in the event.
package events
