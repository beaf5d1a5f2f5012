package tui

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jmbglens/internal/clipboard"
	"github.com/dshills/jmbglens/internal/config"
	"github.com/dshills/jmbglens/internal/coordinator"
	"github.com/dshills/jmbglens/internal/decoration"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/jmbg"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/message"
	"github.com/dshills/jmbglens/internal/panel"
)

type fixture struct {
	sim   tcell.SimulationScreen
	host  *editor.Host
	view  *editor.View
	clip  *clipboard.Memory
	coord *coordinator.Coordinator
	ui    *UI
}

func newFixture(t *testing.T, text string, at editor.Point) *fixture {
	t.Helper()

	f := &fixture{clip: clipboard.NewMemory()}
	f.sim = tcell.NewSimulationScreen("UTF-8")
	f.host = editor.NewHost(event.NewBus())
	f.view = f.host.Open(editor.NewDocument("mem://ids.txt", text))
	f.view.SetSelections(events.SelectionChangeMouse, editor.NewCursor(at))

	store := config.NewStore(config.WithEnv(nil), config.WithNotifier(f.host))
	model := message.NewModel(logging.Nop())
	deco := decoration.NewManager(f.host, store, logging.Nop())
	f.coord = coordinator.New(f.host, model, deco, coordinator.WithClipboard(f.clip))

	screen := WrapScreen(f.sim)
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	f.sim.SetSize(80, 12)

	f.ui = New(screen, f.host, WithRand(rand.New(rand.NewPCG(7, 7))))
	ch := panel.New(f.ui.Panel(), panel.WithNotifier(f.host))
	ch.SetHandler(f.coord)
	f.ui.Attach(ch)
	model.SetObserver(ch.Observe)

	stop, err := f.coord.FollowPanel()
	require.NoError(t, err)
	t.Cleanup(stop)

	f.host.RunPending()
	return f
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) {
	f.ui.Handle(tcell.NewEventKey(k, r, mod))
	f.host.RunPending()
}

func (f *fixture) row(y int) string {
	cells, w, _ := f.sim.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(string(c.Runes))
	}
	return b.String()
}

func (f *fixture) cell(x, y int) tcell.SimCell {
	cells, w, _ := f.sim.GetContents()
	return cells[y*w+x]
}

func TestUI_PanelToggleActivatesDecoration(t *testing.T) {
	f := newFixture(t, "id 0101990710008\nnext", editor.Point{Column: 5})
	f.ui.Draw()
	assert.Contains(t, f.row(0), "id 0101990710008")
	assert.NotContains(t, f.row(3), "Valid")

	f.key(tcell.KeyCtrlP, 0, tcell.ModCtrl)
	require.Equal(t, coordinator.Active, f.coord.State())

	assert.Contains(t, f.row(0), "JMBG")
	assert.Contains(t, f.row(2), "0101990710008")
	assert.Contains(t, f.row(3), "✓ Valid")
	assert.Contains(t, f.row(9), `"place": "Belgrade"`)

	digit := f.cell(gutterWidth+3, 0)
	_, _, attrs := digit.Style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrUnderline, "identifier is underlined")
	assert.Equal(t, tcell.GetColor("#ff8800"), digit.Style.GetUnderlineColor())

	before := f.cell(gutterWidth+1, 0)
	_, _, attrs = before.Style.Decompose()
	assert.Zero(t, attrs&tcell.AttrUnderline)

	f.key(tcell.KeyCtrlP, 0, tcell.ModCtrl)
	assert.Equal(t, coordinator.Inactive, f.coord.State())
	assert.NotContains(t, f.row(3), "Valid")
	_, _, attrs = f.cell(gutterWidth+3, 0).Style.Decompose()
	assert.Zero(t, attrs&tcell.AttrUnderline, "decoration released when hidden")
}

func TestUI_InvalidSelectionShowsReason(t *testing.T) {
	f := newFixture(t, "3102990710008", editor.Point{})
	f.key(tcell.KeyCtrlP, 0, tcell.ModCtrl)

	assert.Contains(t, f.row(3), "✗ Invalid date")
	assert.Contains(t, f.row(6), `"day": null`)
}

func TestUI_ValidateStatus(t *testing.T) {
	f := newFixture(t, "0101990710001", editor.Point{})

	f.key(tcell.KeyCtrlT, 0, tcell.ModCtrl)
	text, isErr := f.ui.Status()
	assert.True(t, isErr)
	assert.Equal(t, "0101990710001 Invalid! Invalid control number", text)
	assert.Contains(t, f.row(11), "Invalid control number")

	f.key(tcell.KeyRight, 0, tcell.ModNone)
	text, _ = f.ui.Status()
	assert.Empty(t, text, "any key clears the status")
}

func TestUI_TypingAndCursor(t *testing.T) {
	f := newFixture(t, "ab", editor.Point{Column: 2})

	f.key(tcell.KeyRune, 'c', tcell.ModNone)
	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	f.key(tcell.KeyRune, 'd', tcell.ModNone)
	assert.Equal(t, "abc\nd", f.view.Document().Text())

	f.key(tcell.KeyBackspace2, 0, tcell.ModNone)
	f.key(tcell.KeyBackspace2, 0, tcell.ModNone)
	assert.Equal(t, "abc", f.view.Document().Text())
	assert.Equal(t, editor.Point{Column: 3}, f.view.Selection().Active)

	f.key(tcell.KeyLeft, 0, tcell.ModShift)
	f.key(tcell.KeyLeft, 0, tcell.ModShift)
	assert.Equal(t, editor.Span{Start: editor.Point{Column: 1}, End: editor.Point{Column: 3}}, f.view.Selection().Span())

	f.key(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, "ax", f.view.Document().Text())

	x, y, visible := f.sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, gutterWidth+2, x)
	assert.Equal(t, 0, y)
	assert.Contains(t, f.row(11), "Ln 1, Col 3")
}

func TestUI_ReadOnlyTyping(t *testing.T) {
	f := newFixture(t, "ab", editor.Point{})
	f.view.Document().SetReadOnly(true)

	f.key(tcell.KeyRune, 'c', tcell.ModNone)
	text, isErr := f.ui.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Document is read-only", text)
}

func TestUI_GenerateAndCopy(t *testing.T) {
	f := newFixture(t, "", editor.Point{})
	f.key(tcell.KeyCtrlP, 0, tcell.ModCtrl)

	f.key(tcell.KeyCtrlG, 0, tcell.ModCtrl)
	id := f.view.Document().Text()
	require.True(t, jmbg.Validate(id).Valid, id)

	f.key(tcell.KeyHome, 0, tcell.ModNone)
	f.key(tcell.KeyCtrlY, 0, tcell.ModCtrl)
	copied, err := f.clip.ReadText()
	require.NoError(t, err)
	assert.Contains(t, copied, `"gender"`)
	text, _ := f.ui.Status()
	assert.Equal(t, "Copied decoded fields", text)
}

func TestUI_PanelActionsWhileHidden(t *testing.T) {
	f := newFixture(t, "0101990710008", editor.Point{})

	f.key(tcell.KeyCtrlY, 0, tcell.ModCtrl)
	copied, err := f.clip.ReadText()
	require.NoError(t, err)
	assert.Empty(t, copied)
	text, isErr := f.ui.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Panel is hidden, press ^P to show it", text)

	f.key(tcell.KeyCtrlO, 0, tcell.ModCtrl)
	text, _ = f.ui.Status()
	assert.NotContains(t, text, "Opened")
}

func TestUI_QuitKey(t *testing.T) {
	f := newFixture(t, "", editor.Point{})
	assert.False(t, f.ui.Handle(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)))
	assert.True(t, f.ui.Handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestDecorate(t *testing.T) {
	base := tcell.StyleDefault
	tests := []struct {
		name  string
		style editor.DecorationStyle
		want  tcell.UnderlineStyle
	}{
		{"solid", editor.DecorationStyle{BorderWidth: "0 0 2px 0", BorderStyle: "solid", BorderColor: "red"}, tcell.UnderlineStyleSolid},
		{"dashed", editor.DecorationStyle{BorderWidth: "0 0 1px 0", BorderStyle: "dashed"}, tcell.UnderlineStyleDashed},
		{"groove falls back", editor.DecorationStyle{BorderWidth: "0 0 1em 0", BorderStyle: "groove"}, tcell.UnderlineStyleSolid},
		{"zero width", editor.DecorationStyle{BorderWidth: "0 0 0px 0", BorderStyle: "solid"}, tcell.UnderlineStyleNone},
		{"hidden", editor.DecorationStyle{BorderWidth: "0 0 2px 0", BorderStyle: "hidden"}, tcell.UnderlineStyleNone},
		{"single value", editor.DecorationStyle{BorderWidth: "3px", BorderStyle: "dotted"}, tcell.UnderlineStyleDotted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decorate(base, tt.style)
			assert.Equal(t, tt.want, got.GetUnderlineStyle())
		})
	}
	assert.Equal(t, tcell.ColorRed, decorate(base, tests[0].style).GetUnderlineColor())
}
