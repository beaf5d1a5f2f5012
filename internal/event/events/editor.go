package events

import "github.com/dshills/jmbglens/internal/event/topic"

// Editor event topics.
const (
	// TopicSelectionChanged is published when a view's selections move.
	TopicSelectionChanged topic.Topic = "editor.selection.changed"

	// TopicActiveEditorChanged is published when the active view changes.
	TopicActiveEditorChanged topic.Topic = "editor.active.changed"

	// TopicDocumentChanged is published after a document edit is applied.
	TopicDocumentChanged topic.Topic = "document.changed"
)

// SelectionChangeKind describes what moved the selection.
type SelectionChangeKind string

// Selection change sources.
const (
	SelectionChangeKeyboard SelectionChangeKind = "keyboard"
	SelectionChangeMouse    SelectionChangeKind = "mouse"
	SelectionChangeCommand  SelectionChangeKind = "command"
	SelectionChangeEdit     SelectionChangeKind = "edit"
)

// SelectionChanged is published when a view's selections move.
type SelectionChanged struct {
	// ViewID identifies the view whose selection changed.
	ViewID string

	// Kind is what caused the change.
	Kind SelectionChangeKind

	// Count is the number of selections after the change.
	Count int
}

// ActiveEditorChanged is published when the active view changes.
type ActiveEditorChanged struct {
	// ViewID is the newly active view, empty if none.
	ViewID string

	// PreviousViewID is the view that was active before, empty if none.
	PreviousViewID string
}

// DocumentChanged is published after a document edit is applied.
type DocumentChanged struct {
	// DocumentID identifies the edited document.
	DocumentID string

	// URI is the document location.
	URI string

	// Version is the document version after the edit.
	Version int
}
