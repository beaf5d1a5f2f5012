package commands

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/jmbg"
)

func newHost(t *testing.T, text string) (*editor.Host, *editor.View) {
	t.Helper()
	h := editor.NewHost(event.NewBus())
	v := h.Open(editor.NewDocument("file:///ids.txt", text))
	h.Show(v)
	h.RunPending()
	return h, v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		at    editor.Point
		level Level
		want  string
	}{
		{"valid", "id 0101990710008", editor.Point{Column: 5}, LevelInfo, "0101990710008 Valid!"},
		{"bad checksum", "0101990710001", editor.Point{}, LevelError, "0101990710001 Invalid! Invalid control number"},
		{"bad date", "3102990710008", editor.Point{}, LevelError, "3102990710008 Invalid! Invalid date"},
		{"short", "12345", editor.Point{Column: 2}, LevelError, "12345 Invalid! Must contain exactly 13 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, v := newHost(t, tt.text)
			v.SetSelections(events.SelectionChangeCommand, editor.NewCursor(tt.at))

			n, err := Validate(h)
			require.NoError(t, err)
			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.want, n.Text)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	h := editor.NewHost(event.NewBus())
	_, err := Validate(h)
	assert.ErrorIs(t, err, ErrNoActiveEditor)

	h, v := newHost(t, "0101990710008 1505985805006")
	v.SetSelections(events.SelectionChangeCommand,
		editor.NewCursor(editor.Point{}),
		editor.NewCursor(editor.Point{Column: 15}),
	)
	_, err = Validate(h)
	assert.ErrorIs(t, err, ErrMultipleSelections)
}

func TestGenerateRandom(t *testing.T) {
	h, v := newHost(t, "a\nb")
	v.SetSelections(events.SelectionChangeCommand,
		editor.Selection{Anchor: editor.Point{Line: 0, Column: 0}, Active: editor.Point{Line: 0, Column: 1}},
		editor.NewCursor(editor.Point{Line: 1, Column: 1}),
	)
	version := v.Document().Version()

	rng := rand.New(rand.NewPCG(1, 2))
	require.NoError(t, GenerateRandom(h, rng))
	assert.Equal(t, version+1, v.Document().Version(), "one edit")

	lines := strings.Split(v.Document().Text(), "\n")
	require.Len(t, lines, 2)
	first := lines[0]
	assert.True(t, jmbg.Validate(first).Valid, first)
	require.True(t, strings.HasPrefix(lines[1], "b"))
	assert.True(t, jmbg.Validate(strings.TrimPrefix(lines[1], "b")).Valid, lines[1])
}

func TestGenerateRandom_ReadOnly(t *testing.T) {
	h, v := newHost(t, "x")
	v.Document().SetReadOnly(true)
	err := GenerateRandom(h, rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, editor.ErrReadOnly)

	assert.ErrorIs(t, GenerateRandom(editor.NewHost(event.NewBus()), nil), ErrNoActiveEditor)
}
