package event

import (
	"sort"
	"sync"

	"github.com/dshills/jmbglens/internal/event/topic"
)

// Registry manages subscriptions keyed by ID.
// It is thread-safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*subscription
	nextSeq uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*subscription),
	}
}

// Add adds a subscription. Subscriptions with equal priority are matched in
// the order they were added.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	sub.seq = r.nextSeq
	r.byID[sub.ID()] = sub
}

// Remove removes a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[subID]; !exists {
		return false
	}
	delete(r.byID, subID)
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.byID[subID]
	return sub, exists
}

// MatchActive returns the active subscriptions whose pattern matches the
// event topic, in priority order. The returned slice is a copy.
func (r *Registry) MatchActive(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*subscription
	for _, sub := range r.byID {
		if sub.IsActive() && eventTopic.Matches(sub.Topic()) {
			result = append(result, sub)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].config.Priority != result[j].config.Priority {
			return result[i].config.Priority < result[j].config.Priority
		}
		return result[i].seq < result[j].seq
	})
	return result
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			count++
		}
	}
	return count
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.Cancel()
	}
	r.byID = make(map[string]*subscription)
}
