package message

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/jmbglens/internal/jmbg"
)

// Message is the current selection and its validation outcome.
// Text is nil when nothing is selected; Reason is nil unless the text is invalid.
type Message struct {
	Text    *string
	Valid   bool
	Reason  *jmbg.Reason
	Decoded Fields
}

// Empty returns the canonical message for an empty selection.
func Empty() Message {
	return Message{Decoded: EmptyFields()}
}

// ReasonText returns the human-readable reason, or "" for valid or empty messages.
func (m Message) ReasonText() string {
	if m.Reason == nil {
		return ""
	}
	return m.Reason.Message()
}

// MarshalJSON writes {text, valid, reason, reasonCode, decoded}.
func (m Message) MarshalJSON() ([]byte, error) {
	decoded, err := m.Decoded.MarshalJSON()
	if err != nil {
		return nil, err
	}

	buf := []byte("{}")
	if m.Text != nil {
		buf, err = sjson.SetBytes(buf, "text", *m.Text)
	} else {
		buf, err = sjson.SetRawBytes(buf, "text", []byte("null"))
	}
	if err != nil {
		return nil, fmt.Errorf("set text: %w", err)
	}
	if buf, err = sjson.SetBytes(buf, "valid", m.Valid); err != nil {
		return nil, fmt.Errorf("set valid: %w", err)
	}
	if m.Reason != nil {
		if buf, err = sjson.SetBytes(buf, "reason", m.Reason.Message()); err == nil {
			buf, err = sjson.SetBytes(buf, "reasonCode", m.Reason.String())
		}
	} else {
		if buf, err = sjson.SetRawBytes(buf, "reason", []byte("null")); err == nil {
			buf, err = sjson.SetRawBytes(buf, "reasonCode", []byte("null"))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("set reason: %w", err)
	}
	if buf, err = sjson.SetRawBytes(buf, "decoded", decoded); err != nil {
		return nil, fmt.Errorf("set decoded: %w", err)
	}
	return buf, nil
}

// UnmarshalJSON reads a message written by MarshalJSON.
func (m *Message) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Pretty returns the message as indented JSON.
func (m Message) Pretty() ([]byte, error) {
	raw, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(raw, prettyOptions), nil
}

// Parse reads a Message from JSON. The reason is restored from reasonCode.
func Parse(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return Message{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return Message{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var m Message
	if text := obj.Get("text"); text.Type == gjson.String {
		s := text.String()
		m.Text = &s
	}
	m.Valid = obj.Get("valid").Bool()
	if code := obj.Get("reasonCode"); code.Type == gjson.String {
		r, ok := jmbg.ParseReason(code.String())
		if !ok {
			return Message{}, fmt.Errorf("%w: unknown reason code %q", ErrMalformed, code.String())
		}
		m.Reason = &r
	}

	decoded, err := fieldsFrom(obj.Get("decoded"))
	if err != nil {
		return Message{}, err
	}
	m.Decoded = decoded
	return m, nil
}
