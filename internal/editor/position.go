package editor

import "fmt"

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column counts runes.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Span is a half-open range [Start, End) within a document.
type Span struct {
	Start Point
	End   Point
}

// NewSpan creates a span covering a and b in document order.
func NewSpan(a, b Point) Span {
	if b.Before(a) {
		a, b = b, a
	}
	return Span{Start: a, End: b}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%s-%s)", s.Start, s.End)
}

// IsEmpty returns true if the span has zero width.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if p lies within the span.
func (s Span) Contains(p Point) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}

// Selection is a selected region. Anchor is where the selection started and
// Active is where the cursor is.
type Selection struct {
	Anchor Point
	Active Point
}

// NewCursor creates a zero-width selection at p.
func NewCursor(p Point) Selection {
	return Selection{Anchor: p, Active: p}
}

// IsCursor returns true if the selection has zero width.
func (s Selection) IsCursor() bool {
	return s.Anchor == s.Active
}

// Span returns the selected range in document order.
func (s Selection) Span() Span {
	return NewSpan(s.Anchor, s.Active)
}
