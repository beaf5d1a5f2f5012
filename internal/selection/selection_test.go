package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
)

func TestExtract(t *testing.T) {
	h := editor.NewHost(event.NewBus())
	v := h.Open(editor.NewDocument("mem://a", "jmbg 0101990710008 ok\n\nsecond line"))

	tests := []struct {
		name     string
		sel      editor.Selection
		wantText string
		wantSpan editor.Span
	}{
		{
			name:     "cursor inside number",
			sel:      editor.NewCursor(editor.Point{Line: 0, Column: 9}),
			wantText: "0101990710008",
			wantSpan: editor.Span{Start: editor.Point{Column: 5}, End: editor.Point{Column: 18}},
		},
		{
			name:     "cursor on empty line",
			sel:      editor.NewCursor(editor.Point{Line: 1}),
			wantText: "",
			wantSpan: editor.Span{Start: editor.Point{Line: 1}, End: editor.Point{Line: 1}},
		},
		{
			name:     "explicit range",
			sel:      editor.Selection{Anchor: editor.Point{Column: 7}, Active: editor.Point{Column: 2}},
			wantText: "bg 01",
			wantSpan: editor.Span{Start: editor.Point{Column: 2}, End: editor.Point{Column: 7}},
		},
		{
			name:     "range across lines",
			sel:      editor.Selection{Anchor: editor.Point{Line: 0, Column: 19}, Active: editor.Point{Line: 2, Column: 6}},
			wantText: "ok\n\nsecond",
			wantSpan: editor.Span{Start: editor.Point{Line: 0, Column: 19}, End: editor.Point{Line: 2, Column: 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.SetSelections(events.SelectionChangeCommand, tt.sel)
			got := Extract(v)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantSpan, got.Span)
		})
	}
}

func TestExtract_UsesPrimarySelection(t *testing.T) {
	h := editor.NewHost(event.NewBus())
	v := h.Open(editor.NewDocument("mem://a", "aaa bbb"))
	v.SetSelections(events.SelectionChangeMouse,
		editor.NewCursor(editor.Point{Column: 5}),
		editor.NewCursor(editor.Point{Column: 1}),
	)
	assert.Equal(t, "bbb", Extract(v).Text)
}
