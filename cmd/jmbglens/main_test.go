package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/jmbglens/internal/jmbg"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidateCmd(t *testing.T) {
	out, _, err := execute(t, "", "validate", "0101990710008")
	require.NoError(t, err)
	assert.Equal(t, "✓ 0101990710008 Valid!\n", out)

	out, _, err = execute(t, "", "validate", "0101990710008", "3102990710008")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "✗ 3102990710008 Invalid! Invalid date")
}

func TestValidateCmd_Stdin(t *testing.T) {
	out, _, err := execute(t, "1505985805006\n\n  0101990710001 \n", "validate")
	assert.ErrorIs(t, err, errInvalid)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✓ 1505985805006 Valid!", lines[0])
	assert.Equal(t, "✗ 0101990710001 Invalid! Invalid control number", lines[1])
}

func TestDecodeCmd(t *testing.T) {
	out, _, err := execute(t, "", "decode", "1505985805006")
	require.NoError(t, err)
	assert.Equal(t, "Novi Sad", gjson.Get(out, "decoded.place").String())
	assert.Equal(t, "female", gjson.Get(out, "decoded.gender").String())
	assert.Equal(t, 1, strings.Count(out, "\n"), "compact output is one line")

	out, _, err = execute(t, "", "decode", "--pretty", "1505985805006")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"valid\": true,\n")
}

func TestDecodeCmd_Text(t *testing.T) {
	out, _, err := execute(t, "", "decode", "--text", "0101990710008")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 0101990710008")
	assert.Contains(t, out, "Birth date  1.1.1990.")
	assert.Contains(t, out, "Place       Belgrade")

	out, _, err = execute(t, "", "decode", "--text", "0101990600008")
	require.NoError(t, err)
	assert.Contains(t, out, "Place       -")

	out, _, err = execute(t, "", "decode", "--text", "12")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "Must contain exactly 13 digits")
}

func TestDecodeCmd_Copy(t *testing.T) {
	_, stderr, err := execute(t, "", "decode", "--copy", "0101990710008")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stderr, "\x1b]52;c;"), stderr)

	payload := strings.TrimRight(strings.TrimPrefix(stderr, "\x1b]52;c;"), "\a\x1b\\")
	body, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, "Belgrade", gjson.GetBytes(body, "place").String())
}

func TestDecodeCmd_Flags(t *testing.T) {
	_, _, err := execute(t, "", "decode")
	assert.Error(t, err)

	_, _, err = execute(t, "", "decode", "--pretty", "--text", "0101990710008")
	assert.Error(t, err)
}

func TestGenerateCmd(t *testing.T) {
	out, _, err := execute(t, "", "generate", "-n", "5", "--seed", "42")
	require.NoError(t, err)
	ids := strings.Fields(out)
	require.Len(t, ids, 5)
	for _, id := range ids {
		assert.True(t, jmbg.Validate(id).Valid, id)
	}

	again, _, err := execute(t, "", "generate", "-n", "5", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed, same output")

	_, _, err = execute(t, "", "generate", "-n", "0")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jmbglens dev")

	out, _, err = execute(t, "", "version", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "dev", gjson.Get(out, "version").String())
	assert.True(t, strings.HasPrefix(gjson.Get(out, "go").String(), "go"))
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "version")
	assert.Error(t, err)
}
