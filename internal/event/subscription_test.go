package event

import (
	"context"
	"testing"
)

func TestSubscriptionState_String(t *testing.T) {
	tests := []struct {
		state SubscriptionState
		want  string
	}{
		{SubscriptionStateActive, "active"},
		{SubscriptionStatePaused, "paused"},
		{SubscriptionStateCancelled, "cancelled"},
		{SubscriptionState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestSubscription_Lifecycle(t *testing.T) {
	sub := newSubscription("id", testTopic, HandlerFunc(func(context.Context, any) error { return nil }))

	if !sub.IsActive() {
		t.Fatal("new subscription should be active")
	}
	sub.Pause()
	if sub.State() != SubscriptionStatePaused {
		t.Errorf("state = %s, want paused", sub.State())
	}
	sub.Resume()
	if !sub.IsActive() {
		t.Error("expected active after resume")
	}
	sub.Cancel()
	sub.Resume()
	if sub.State() != SubscriptionStateCancelled {
		t.Errorf("cancelled subscription resumed to %s", sub.State())
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	sub := newSubscription("a", testTopic, HandlerFunc(func(context.Context, any) error { return nil }))
	r.Add(sub)
	if r.Count() != 1 || r.CountActive() != 1 {
		t.Fatalf("count = %d active = %d", r.Count(), r.CountActive())
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("Get(a) not found")
	}

	r.Clear()
	if r.Count() != 0 {
		t.Errorf("count after clear = %d", r.Count())
	}
	if sub.IsActive() {
		t.Error("cleared subscription should be cancelled")
	}
}

func TestPriority_String(t *testing.T) {
	tests := []struct {
		p    Priority
		want string
	}{
		{PriorityCritical, "critical"},
		{PriorityHigh, "high"},
		{PriorityNormal, "normal"},
		{PriorityLow, "low"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
