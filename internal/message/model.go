package message

import (
	"sync"

	"github.com/dshills/jmbglens/internal/jmbg"
	"github.com/dshills/jmbglens/internal/logging"
)

// Observer receives every new Message.
type Observer func(Message)

// Model owns the current Message.
type Model struct {
	mu       sync.Mutex
	last     Message
	observer Observer
	log      *logging.Logger
}

// NewModel creates a model holding the empty message.
func NewModel(log *logging.Logger) *Model {
	if log == nil {
		log = logging.Nop()
	}
	return &Model{
		last: Empty(),
		log:  log.WithComponent("message"),
	}
}

// SetObserver replaces the observer. A nil observer disables notification.
func (m *Model) SetObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

// Last returns the most recent Message.
func (m *Model) Last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Recompute derives a new Message from text, stores it and hands it to the
// observer before returning.
func (m *Model) Recompute(text string) Message {
	msg := Build(text)

	m.mu.Lock()
	m.last = msg
	observer := m.observer
	m.mu.Unlock()

	m.log.Debug("recomputed message valid=%t reason=%q", msg.Valid, msg.ReasonText())
	if observer != nil {
		observer(msg)
	}
	return msg
}

// Build derives the Message for text without touching any model.
func Build(text string) Message {
	if text == "" {
		return Empty()
	}

	res := jmbg.Validate(text)
	if !res.Valid {
		reason := res.Reason
		return Message{Text: &text, Reason: &reason, Decoded: EmptyFields()}
	}

	// Validate already passed, so Decode cannot fail.
	decoded, _ := jmbg.Decode(text)
	return Message{Text: &text, Valid: true, Decoded: EmptyFields().Merge(FromDecoded(decoded))}
}
