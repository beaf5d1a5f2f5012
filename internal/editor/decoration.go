package editor

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// DecorationStyle describes how a decoration is drawn. Border values follow
// CSS shorthand: BorderWidth "0 0 2px 0" draws a 2px bottom border.
type DecorationStyle struct {
	BorderWidth string
	BorderStyle string
	BorderColor string
	IsWholeLine bool
}

// DecorationType is an opaque, disposable decoration handle created by the host.
type DecorationType struct {
	id       string
	seq      uint64
	style    DecorationStyle
	host     *Host
	disposed atomic.Bool
}

// ID returns the handle identifier.
func (t *DecorationType) ID() string {
	return t.id
}

// Style returns the style the handle was created with.
func (t *DecorationType) Style() DecorationStyle {
	return t.style
}

// Disposed reports whether Dispose has been called.
func (t *DecorationType) Disposed() bool {
	return t.disposed.Load()
}

// Dispose removes the decoration from every view and releases the handle.
// Calling Dispose more than once is a no-op.
func (t *DecorationType) Dispose() {
	if t.disposed.Swap(true) {
		return
	}
	t.host.releaseDecorationType(t)
}

// Decoration is a decoration type together with the spans it covers in a view.
type Decoration struct {
	Type  *DecorationType
	Spans []Span
}

func newDecorationType(h *Host, seq uint64, style DecorationStyle) *DecorationType {
	return &DecorationType{
		id:    uuid.NewString(),
		seq:   seq,
		style: style,
		host:  h,
	}
}
