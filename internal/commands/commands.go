// Package commands implements the user-invoked validate and generate
// commands. Both operate on the active view of the host.
package commands

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/jmbg"
	"github.com/dshills/jmbglens/internal/selection"
)

var (
	// ErrNoActiveEditor is returned when no view is active.
	ErrNoActiveEditor = errors.New("no active editor")

	// ErrMultipleSelections is returned by Validate when the view has more
	// than one selection.
	ErrMultipleSelections = errors.New("multiple selections")
)

// Host provides the active view.
type Host interface {
	ActiveView() *editor.View
}

// Level is the severity of a Notification.
type Level uint8

const (
	// LevelInfo reports a valid identifier.
	LevelInfo Level = iota
	// LevelError reports an invalid identifier.
	LevelError
)

// String returns "info" or "error".
func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a short message for the user.
type Notification struct {
	Level Level
	Text  string
}

// Validate checks the selected text of the active view.
func Validate(host Host) (Notification, error) {
	v := host.ActiveView()
	if v == nil {
		return Notification{}, ErrNoActiveEditor
	}
	if len(v.Selections()) > 1 {
		return Notification{}, ErrMultipleSelections
	}

	text := selection.Extract(v).Text
	res := jmbg.Validate(text)
	if res.Valid {
		return Notification{Level: LevelInfo, Text: text + " Valid!"}, nil
	}
	return Notification{
		Level: LevelError,
		Text:  fmt.Sprintf("%s Invalid! %s", text, res.Reason.Message()),
	}, nil
}

// GenerateRandom replaces every selection of the active view with a fresh
// random identifier. All replacements are applied as one edit.
func GenerateRandom(host Host, rng *rand.Rand) error {
	v := host.ActiveView()
	if v == nil {
		return ErrNoActiveEditor
	}
	sels := v.Selections()
	err := v.Edit(func(b *editor.EditBuilder) {
		for _, sel := range sels {
			b.Replace(sel.Span(), jmbg.Generate(rng))
		}
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}
