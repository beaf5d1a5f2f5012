package editor

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

// ErrReadOnly is returned when editing a read-only document.
var ErrReadOnly = errors.New("document is read-only")

// ErrOutOfRange is returned when an edit refers to a position outside the document.
var ErrOutOfRange = errors.New("position out of range")

// Document is the text shown by one or more views.
// It is safe for concurrent reads; edits go through View.Edit.
type Document struct {
	mu       sync.RWMutex
	id       string
	uri      string
	lines    [][]rune
	version  int
	readOnly bool
}

// NewDocument creates a document with the given location and content.
// CRLF line endings are normalized to LF.
func NewDocument(uri, text string) *Document {
	return &Document{
		id:      uuid.NewString(),
		uri:     uri,
		lines:   splitLines(text),
		version: 1,
	}
}

// ID returns the unique document identifier.
func (d *Document) ID() string {
	return d.id
}

// URI returns the document location.
func (d *Document) URI() string {
	return d.uri
}

// Version returns the edit version; it increases with every applied edit.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// ReadOnly reports whether edits are rejected.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly toggles edit rejection.
func (d *Document) SetReadOnly(ro bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = ro
}

// Text returns the full document text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	parts := make([]string, len(d.lines))
	for i, l := range d.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of line i, or "" if out of range.
func (d *Document) Line(i int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return string(d.lines[i])
}

// LineEnd returns the position after the last character of line.
func (d *Document) LineEnd(line int) Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	line = clampInt(line, 0, len(d.lines)-1)
	return Point{Line: line, Column: len(d.lines[line])}
}

// Clamp returns p moved to the nearest valid position.
func (d *Document) Clamp(p Point) Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.clampLocked(p)
}

func (d *Document) clampLocked(p Point) Point {
	p.Line = clampInt(p.Line, 0, len(d.lines)-1)
	p.Column = clampInt(p.Column, 0, len(d.lines[p.Line]))
	return p
}

// TextIn returns the text covered by span.
func (d *Document) TextIn(span Span) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	start := d.clampLocked(span.Start)
	end := d.clampLocked(span.End)
	if !start.Before(end) {
		return ""
	}
	if start.Line == end.Line {
		return string(d.lines[start.Line][start.Column:end.Column])
	}

	var b strings.Builder
	b.WriteString(string(d.lines[start.Line][start.Column:]))
	for i := start.Line + 1; i < end.Line; i++ {
		b.WriteByte('\n')
		b.WriteString(string(d.lines[i]))
	}
	b.WriteByte('\n')
	b.WriteString(string(d.lines[end.Line][:end.Column]))
	return b.String()
}

// WordSpanAt returns the span of the word touching p. A position directly
// after a word still selects that word. Words are runs of letters, digits
// and underscores.
func (d *Document) WordSpanAt(p Point) (Span, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p = d.clampLocked(p)
	line := d.lines[p.Line]

	start, end := p.Column, p.Column
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	for end < len(line) && isWordRune(line[end]) {
		end++
	}
	if start == end {
		return Span{}, false
	}
	return Span{
		Start: Point{Line: p.Line, Column: start},
		End:   Point{Line: p.Line, Column: end},
	}, true
}

// replace substitutes span with text and returns the end of the inserted text.
// The caller holds no lock.
func (d *Document) replace(span Span, text string) (Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return Point{}, ErrReadOnly
	}
	if !d.validLocked(span.Start) || !d.validLocked(span.End) {
		return Point{}, ErrOutOfRange
	}

	start, end := span.Start, span.End
	prefix := d.lines[start.Line][:start.Column]
	suffix := d.lines[end.Line][end.Column:]

	inserted := splitLines(text)
	last := len(inserted) - 1
	newEnd := Point{Line: start.Line + last, Column: len(inserted[last])}
	if last == 0 {
		newEnd.Column += len(prefix)
	}

	replacement := make([][]rune, len(inserted))
	for i, l := range inserted {
		replacement[i] = append([]rune(nil), l...)
	}
	replacement[0] = append(append([]rune(nil), prefix...), replacement[0]...)
	replacement[last] = append(replacement[last], suffix...)

	lines := make([][]rune, 0, len(d.lines)-(end.Line-start.Line)+last)
	lines = append(lines, d.lines[:start.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, d.lines[end.Line+1:]...)
	d.lines = lines

	return newEnd, nil
}

// bump records one applied edit.
func (d *Document) bump() {
	d.mu.Lock()
	d.version++
	d.mu.Unlock()
}

func (d *Document) validLocked(p Point) bool {
	return p.Line >= 0 && p.Line < len(d.lines) && p.Column >= 0 && p.Column <= len(d.lines[p.Line])
}

// splitLines splits text into rune lines, normalizing CRLF to LF.
func splitLines(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

// isWordRune returns true if r is a word character.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
