package editor

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
)

// ErrOverlappingEdits is returned when an edit contains overlapping ranges.
var ErrOverlappingEdits = errors.New("overlapping edits")

// View is a document displayed in the editor.
type View struct {
	mu          sync.RWMutex
	id          string
	host        *Host
	doc         *Document
	selections  []Selection
	decorations map[string]*Decoration
}

func newView(h *Host, doc *Document) *View {
	return &View{
		id:          uuid.NewString(),
		host:        h,
		doc:         doc,
		selections:  []Selection{NewCursor(Point{})},
		decorations: make(map[string]*Decoration),
	}
}

// ID returns the view identifier.
func (v *View) ID() string {
	return v.id
}

// Document returns the displayed document.
func (v *View) Document() *Document {
	return v.doc
}

// Selection returns the primary selection.
func (v *View) Selection() Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selections[0]
}

// Selections returns a copy of all selections; the first is primary.
func (v *View) Selections() []Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Selection(nil), v.selections...)
}

// SetSelections replaces the selections and queues a selection-changed
// notification. Positions are clamped to the document. Calling with no
// selections is a no-op.
func (v *View) SetSelections(kind events.SelectionChangeKind, sels ...Selection) {
	if len(sels) == 0 {
		return
	}
	clamped := make([]Selection, len(sels))
	for i, s := range sels {
		clamped[i] = Selection{Anchor: v.doc.Clamp(s.Anchor), Active: v.doc.Clamp(s.Active)}
	}

	v.mu.Lock()
	v.selections = clamped
	v.mu.Unlock()

	v.host.Notify(event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{
		ViewID: v.id,
		Kind:   kind,
		Count:  len(clamped),
	}, "editor"))
}

// SetDecorations renders dt over spans, replacing whatever dt covered before
// in this view. An empty spans slice clears dt from the view. Disposed
// handles are ignored.
func (v *View) SetDecorations(dt *DecorationType, spans []Span) {
	if dt == nil || dt.Disposed() {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if len(spans) == 0 {
		delete(v.decorations, dt.id)
		return
	}
	v.decorations[dt.id] = &Decoration{Type: dt, Spans: append([]Span(nil), spans...)}
}

// Decorations returns the decorations currently rendered, oldest type first.
func (v *View) Decorations() []Decoration {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Decoration, 0, len(v.decorations))
	for _, d := range v.decorations {
		out = append(out, Decoration{Type: d.Type, Spans: append([]Span(nil), d.Spans...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type.seq < out[j].Type.seq })
	return out
}

func (v *View) clearDecorations() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.decorations)
}

func (v *View) dropDecoration(typeID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.decorations, typeID)
}

// EditBuilder collects the changes of a single atomic edit.
type EditBuilder struct {
	edits []textEdit
}

type textEdit struct {
	span Span
	text string
}

// Insert inserts text at p.
func (b *EditBuilder) Insert(p Point, text string) {
	b.edits = append(b.edits, textEdit{span: Span{Start: p, End: p}, text: text})
}

// Replace replaces span with text.
func (b *EditBuilder) Replace(span Span, text string) {
	b.edits = append(b.edits, textEdit{span: NewSpan(span.Start, span.End), text: text})
}

// Edit applies the changes recorded by fn as one atomic edit. Either every
// change is applied or none is. Selections and decorations of every view on
// the document move with the text; a document-changed notification is
// queued, followed by a selection-changed notification for each view whose
// selections moved.
func (v *View) Edit(fn func(b *EditBuilder)) error {
	b := &EditBuilder{}
	fn(b)
	if len(b.edits) == 0 {
		return nil
	}
	if v.doc.ReadOnly() {
		return ErrReadOnly
	}

	edits := append([]textEdit(nil), b.edits...)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[j].span.Start.Before(edits[i].span.Start)
	})
	for i, e := range edits {
		if v.doc.Clamp(e.span.Start) != e.span.Start || v.doc.Clamp(e.span.End) != e.span.End {
			return ErrOutOfRange
		}
		if i > 0 && edits[i-1].span.Start.Before(e.span.End) {
			return ErrOverlappingEdits
		}
	}

	views := v.host.viewsFor(v.doc)
	before := make(map[*View][]Selection, len(views))
	for _, view := range views {
		before[view] = view.Selections()
	}

	for i, e := range edits {
		newEnd, err := v.doc.replace(e.span, e.text)
		if err != nil {
			if i > 0 {
				v.doc.bump()
			}
			return err
		}
		for _, view := range views {
			view.shift(e.span, newEnd)
		}
	}
	v.doc.bump()

	v.host.Notify(event.NewEvent(events.TopicDocumentChanged, events.DocumentChanged{
		DocumentID: v.doc.ID(),
		URI:        v.doc.URI(),
		Version:    v.doc.Version(),
	}, "editor"))

	for _, view := range views {
		after := view.Selections()
		if !equalSelections(before[view], after) {
			v.host.Notify(event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{
				ViewID: view.id,
				Kind:   events.SelectionChangeEdit,
				Count:  len(after),
			}, "editor"))
		}
	}
	return nil
}

// shift moves selections and decorations after replacing span with text ending at newEnd.
func (v *View) shift(span Span, newEnd Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, s := range v.selections {
		v.selections[i] = Selection{
			Anchor: shiftPoint(s.Anchor, span, newEnd),
			Active: shiftPoint(s.Active, span, newEnd),
		}
	}
	for _, d := range v.decorations {
		for i, sp := range d.Spans {
			d.Spans[i] = Span{
				Start: shiftPoint(sp.Start, span, newEnd),
				End:   shiftPoint(sp.End, span, newEnd),
			}
		}
	}
}

// shiftPoint maps q across the replacement of span by text ending at newEnd.
// Points at or after the end of span move with the text; points inside the
// span collapse to newEnd.
func shiftPoint(q Point, span Span, newEnd Point) Point {
	switch {
	case q.Before(span.Start):
		return q
	case q.Before(span.End):
		return newEnd
	case q.Line == span.End.Line:
		return Point{Line: newEnd.Line, Column: newEnd.Column + q.Column - span.End.Column}
	default:
		return Point{Line: q.Line + newEnd.Line - span.End.Line, Column: q.Column}
	}
}

func equalSelections(a, b []Selection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
