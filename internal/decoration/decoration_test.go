package decoration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jmbglens/internal/config"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/logging"
)

type staticSettings struct {
	s config.Settings
}

func (f *staticSettings) Settings() config.Settings { return f.s }

func setup(t *testing.T) (*editor.Host, *editor.View, *staticSettings, *Manager) {
	t.Helper()
	h := editor.NewHost(event.NewBus())
	v := h.Open(editor.NewDocument("mem://a", "id 0101990710008"))
	settings := &staticSettings{s: config.Default()}
	return h, v, settings, NewManager(h, settings, logging.Nop())
}

var span = editor.Span{Start: editor.Point{Column: 3}, End: editor.Point{Column: 16}}

func TestStyle_EditorStyle(t *testing.T) {
	got := StyleFromSettings(config.Default()).EditorStyle()
	assert.Equal(t, editor.DecorationStyle{
		BorderWidth: "0 0 2px 0",
		BorderStyle: "solid",
		BorderColor: "#ff8800",
	}, got)
}

func TestManager_ApplyCreatesLazily(t *testing.T) {
	h, v, _, m := setup(t)
	assert.Nil(t, m.Active())

	m.Apply(v, span)

	require.NotNil(t, m.Active())
	require.Len(t, h.LiveDecorationTypes(), 1)
	decos := v.Decorations()
	require.Len(t, decos, 1)
	assert.Equal(t, []editor.Span{span}, decos[0].Spans)
	assert.Equal(t, "0 0 2px 0", decos[0].Type.Style().BorderWidth)
}

func TestManager_ApplySupersedesSpan(t *testing.T) {
	h, v, _, m := setup(t)
	other := editor.Span{Start: editor.Point{}, End: editor.Point{Column: 2}}

	m.Apply(v, span)
	m.Apply(v, other)

	assert.Len(t, h.LiveDecorationTypes(), 1)
	decos := v.Decorations()
	require.Len(t, decos, 1)
	assert.Equal(t, []editor.Span{other}, decos[0].Spans)
}

func TestManager_ApplyMovesBetweenViews(t *testing.T) {
	h, v1, _, m := setup(t)
	v2 := h.Open(editor.NewDocument("mem://b", "0101990710008"))

	m.Apply(v1, span)
	m.Apply(v2, editor.Span{End: editor.Point{Column: 13}})

	assert.Empty(t, v1.Decorations())
	assert.Len(t, v2.Decorations(), 1)
}

func TestManager_RebuildNeverLeaks(t *testing.T) {
	h, v, settings, m := setup(t)
	m.Apply(v, span)
	first := m.Active()

	for _, color := range []string{"red", "green", "blue"} {
		settings.s.Decoration.BorderColor = color
		m.RebuildStyle()
		assert.Len(t, h.LiveDecorationTypes(), 1)
	}

	assert.True(t, first.Disposed())
	style, ok := m.Style()
	require.True(t, ok)
	assert.Equal(t, "blue", style.BorderColor)
}

func TestManager_RefreshAfterRebuild(t *testing.T) {
	_, v, settings, m := setup(t)
	m.Apply(v, span)

	settings.s.Decoration.BorderStyle = "dashed"
	m.RebuildStyle()
	assert.Empty(t, v.Decorations(), "rebuild drops the old rendering")

	m.Refresh()
	decos := v.Decorations()
	require.Len(t, decos, 1)
	assert.Equal(t, "dashed", decos[0].Type.Style().BorderStyle)
	assert.Equal(t, []editor.Span{span}, decos[0].Spans)
}

func TestManager_Release(t *testing.T) {
	h, v, _, m := setup(t)
	m.Apply(v, span)

	m.Release()
	m.Release()

	assert.Nil(t, m.Active())
	assert.Empty(t, h.LiveDecorationTypes())
	assert.Empty(t, v.Decorations())

	// Refresh without a handle does nothing.
	m.Refresh()
	assert.Empty(t, v.Decorations())

	_, got, ok := m.Target()
	require.True(t, ok)
	assert.Equal(t, span, got)
}

func TestManager_RefreshSkipsHiddenView(t *testing.T) {
	h, v, _, m := setup(t)
	m.Apply(v, span)
	h.Close(v)

	m.RebuildStyle()
	m.Refresh()

	assert.Empty(t, v.Decorations())
	_, _, ok := m.Target()
	assert.False(t, ok)
}

func TestManager_Forget(t *testing.T) {
	h, v, _, m := setup(t)
	m.Apply(v, span)
	m.Forget()

	assert.Empty(t, v.Decorations())
	assert.Len(t, h.LiveDecorationTypes(), 1)
	_, _, ok := m.Target()
	assert.False(t, ok)
}
