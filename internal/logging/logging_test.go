package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "DEBUG", "info", "", "warn", "warning", "error"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown %d", 42)
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 42")
	assert.Contains(t, out, "WARN")
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Output: &buf, JSON: true, Name: "test"})
	require.NoError(t, err)

	l.WithComponent("paste").WithField("state", "idle").Debug("transition")
	out := buf.String()
	assert.Contains(t, out, `"component":"paste"`)
	assert.Contains(t, out, `"state":"idle"`)
	assert.Contains(t, out, `"logger":"test"`)
}

func TestLogger_SetLevelPropagates(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "error", Output: &buf})
	require.NoError(t, err)

	child := l.WithComponent("child")
	require.NoError(t, l.SetLevel("debug"))
	child.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	assert.Error(t, l.SetLevel("nope"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.WithFields(map[string]any{"a": 1}).Error("discarded")
}
