// Package selection extracts the text a user is pointing at in a view.
package selection

import "github.com/dshills/jmbglens/internal/editor"

// Result is the extracted text and the span it was read from.
type Result struct {
	Text string
	Span editor.Span
}

// Extract returns the text under the primary selection of v. A cursor
// expands to the word it touches; with no word under the cursor the text is
// empty and the span is the cursor position.
func Extract(v *editor.View) Result {
	sel := v.Selection()
	doc := v.Document()

	if sel.IsCursor() {
		span, ok := doc.WordSpanAt(sel.Active)
		if !ok {
			p := doc.Clamp(sel.Active)
			return Result{Span: editor.Span{Start: p, End: p}}
		}
		return Result{Text: doc.TextIn(span), Span: span}
	}

	span := sel.Span()
	return Result{Text: doc.TextIn(span), Span: span}
}
