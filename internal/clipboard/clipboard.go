// Package clipboard provides the clipboard targets used by the copy action.
package clipboard

import (
	"errors"
	"io"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrWriteOnly is returned by clipboards that cannot be read back.
var ErrWriteOnly = errors.New("clipboard is write-only")

// Clipboard stores text for the user to paste elsewhere.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory creates an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// WriteText implements Clipboard.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// ReadText implements Clipboard.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Terminal sets the system clipboard through the OSC 52 escape sequence,
// which most terminal emulators honour, including over SSH.
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	tmux bool
}

// NewTerminal writes OSC 52 sequences to out. Set tmux when running inside
// tmux so the sequence is passed through to the outer terminal.
func NewTerminal(out io.Writer, tmux bool) *Terminal {
	return &Terminal{out: out, tmux: tmux}
}

// WriteText implements Clipboard.
func (t *Terminal) WriteText(text string) error {
	seq := osc52.New(text)
	if t.tmux {
		seq = seq.Tmux()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := seq.WriteTo(t.out)
	return err
}

// ReadText implements Clipboard. Terminals do not reliably answer OSC 52
// queries, so reading is not supported.
func (t *Terminal) ReadText() (string, error) {
	return "", ErrWriteOnly
}
