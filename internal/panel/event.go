package panel

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrUnknownEvent is returned for inbound events of an unrecognized kind.
var ErrUnknownEvent = errors.New("unknown panel event")

// EventKind names an action requested from the panel.
type EventKind string

// Inbound event kinds.
const (
	// KindCopy copies the decoded fields to the clipboard.
	KindCopy EventKind = "copy"

	// KindSendToEditor pastes the decoded fields into the active document.
	KindSendToEditor EventKind = "sendToEditor"

	// KindVisitExternalLink opens the project page.
	KindVisitExternalLink EventKind = "visitExternalLink"
)

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	switch k {
	case KindCopy, KindSendToEditor, KindVisitExternalLink:
		return true
	default:
		return false
	}
}

// Event is an action requested from the panel. None of the kinds carry a
// payload; handlers act on their own last known state.
type Event struct {
	Kind EventKind
}

// ParseEvent reads an inbound event of the form {"type": "<kind>"}.
func ParseEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, fmt.Errorf("%w: invalid json", ErrUnknownEvent)
	}
	kind := EventKind(gjson.GetBytes(data, "type").String())
	if !kind.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
	return Event{Kind: kind}, nil
}

// Handler acts on inbound panel events.
type Handler interface {
	HandlePanelEvent(ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event) error

// HandlePanelEvent implements Handler.
func (f HandlerFunc) HandlePanelEvent(ev Event) error {
	return f(ev)
}
