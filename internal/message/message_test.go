package message

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/jmbglens/internal/jmbg"
	"github.com/dshills/jmbglens/internal/logging"
)

func keys(t *testing.T, data []byte) []string {
	t.Helper()
	var out []string
	gjson.ParseBytes(data).ForEach(func(key, _ gjson.Result) bool {
		out = append(out, key.String())
		return true
	})
	return out
}

func TestFields_KeyOrder(t *testing.T) {
	for _, f := range []Fields{EmptyFields(), FromDecoded(jmbg.Decoded{Day: 1, Month: 2, Year: 1990, Gender: "male"})} {
		raw, err := f.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, []string{"day", "month", "year", "place", "region", "gender"}, keys(t, raw))
	}
}

func TestFields_EmptySerializesNull(t *testing.T) {
	raw, err := json.Marshal(EmptyFields())
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":null,"month":null,"year":null,"place":null,"region":null,"gender":null}`, string(raw))
}

func TestFields_Pretty(t *testing.T) {
	decoded, err := jmbg.Decode("0101990710008")
	require.NoError(t, err)

	got, err := FromDecoded(decoded).Pretty()
	require.NoError(t, err)

	want := `{
  "day": 1,
  "month": 1,
  "year": 1990,
  "place": "Belgrade",
  "region": "Central Serbia",
  "gender": "male"
}`
	assert.Equal(t, want, got)
}

func TestFields_RoundTrip(t *testing.T) {
	for _, text := range []string{"0101990710008", "1505985805006", "0101990600008"} {
		msg := Build(text)
		require.True(t, msg.Valid, text)
		raw, err := msg.Decoded.MarshalJSON()
		require.NoError(t, err)

		parsed, err := ParseFields(raw)
		require.NoError(t, err)
		remerged := EmptyFields().Merge(parsed)
		if diff := cmp.Diff(msg.Decoded, remerged); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", text, diff)
		}

		again, err := remerged.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, string(raw), string(again))
	}
}

func TestParseFields_Errors(t *testing.T) {
	_, err := ParseFields([]byte(`{"day":`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseFields([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseFields([]byte(`{"day":"one"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	f, err := ParseFields([]byte(`{"year":2001}`))
	require.NoError(t, err)
	require.NotNil(t, f.Year)
	assert.Equal(t, 2001, *f.Year)
	assert.Nil(t, f.Day)
}

func TestFields_Merge(t *testing.T) {
	day, place := 3, "Niš"
	base := Fields{Day: &day}
	merged := base.Merge(Fields{Place: &place})
	require.NotNil(t, merged.Day)
	require.NotNil(t, merged.Place)
	assert.Equal(t, 3, *merged.Day)
	assert.Equal(t, "Niš", *merged.Place)
	assert.Nil(t, base.Place)
	assert.True(t, EmptyFields().IsEmpty())
	assert.False(t, merged.IsEmpty())
}

func TestBuild(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		msg := Build("")
		assert.Nil(t, msg.Text)
		assert.False(t, msg.Valid)
		assert.Nil(t, msg.Reason)
		assert.True(t, msg.Decoded.IsEmpty())
	})

	t.Run("valid", func(t *testing.T) {
		msg := Build("1505985805006")
		require.NotNil(t, msg.Text)
		assert.Equal(t, "1505985805006", *msg.Text)
		assert.True(t, msg.Valid)
		assert.Nil(t, msg.Reason)
		require.NotNil(t, msg.Decoded.Place)
		assert.Equal(t, "Novi Sad", *msg.Decoded.Place)
		assert.Equal(t, "female", *msg.Decoded.Gender)
		assert.Equal(t, 1985, *msg.Decoded.Year)
	})

	t.Run("unassigned place stays null", func(t *testing.T) {
		msg := Build("0101990600008")
		require.True(t, msg.Valid)
		assert.Nil(t, msg.Decoded.Place)
		assert.Nil(t, msg.Decoded.Region)
		assert.Equal(t, 1990, *msg.Decoded.Year)
	})

	invalid := []struct {
		text   string
		reason jmbg.Reason
	}{
		{"abc", jmbg.ReasonWrongLength},
		{"\xff\xfe", jmbg.ReasonNotText},
		{"3102990710008", jmbg.ReasonInvalidDate},
		{"0101990710001", jmbg.ReasonInvalidChecksum},
	}
	for _, tt := range invalid {
		t.Run(tt.reason.String(), func(t *testing.T) {
			msg := Build(tt.text)
			require.NotNil(t, msg.Text)
			assert.Equal(t, tt.text, *msg.Text)
			assert.False(t, msg.Valid)
			require.NotNil(t, msg.Reason)
			assert.Equal(t, tt.reason, *msg.Reason)
			assert.Equal(t, EmptyFields(), msg.Decoded)
		})
	}
}

func TestMessage_JSON(t *testing.T) {
	raw, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": null, "valid": false, "reason": null, "reasonCode": null,
		"decoded": {"day":null,"month":null,"year":null,"place":null,"region":null,"gender":null}
	}`, string(raw))
	assert.Equal(t, []string{"text", "valid", "reason", "reasonCode", "decoded"}, keys(t, raw))

	raw, err = json.Marshal(Build("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Must contain exactly 13 digits", gjson.GetBytes(raw, "reason").String())
	assert.Equal(t, "MUST_CONTAIN_EXACTLY_13_DIGITS", gjson.GetBytes(raw, "reasonCode").String())

	for _, msg := range []Message{Empty(), Build("abc"), Build("0101990710008")} {
		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		var back Message
		require.NoError(t, json.Unmarshal(raw, &back))
		if diff := cmp.Diff(msg, back); diff != "" {
			t.Errorf("message round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParse_UnknownReason(t *testing.T) {
	_, err := Parse([]byte(`{"text":"x","valid":false,"reasonCode":"NOPE"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestModel_Recompute(t *testing.T) {
	m := NewModel(logging.Nop())
	assert.Equal(t, Empty(), m.Last())

	var seen []Message
	m.SetObserver(func(msg Message) { seen = append(seen, msg) })

	first := m.Recompute("0101990710008")
	second := m.Recompute("abc")

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Valid)
	assert.False(t, seen[1].Valid)
	assert.Equal(t, second, m.Last())

	// Earlier messages are not mutated by later recomputation.
	assert.True(t, first.Valid)
	require.NotNil(t, first.Decoded.Day)
	assert.Equal(t, 1, *first.Decoded.Day)
}
