package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/jmbglens/internal/jmbg"
)

// ErrMalformed is returned when JSON cannot be read back into Fields or a Message.
var ErrMalformed = errors.New("malformed message json")

// Field keys in serialization order.
const (
	KeyDay    = "day"
	KeyMonth  = "month"
	KeyYear   = "year"
	KeyPlace  = "place"
	KeyRegion = "region"
	KeyGender = "gender"
)

var (
	intKeys    = []string{KeyDay, KeyMonth, KeyYear}
	stringKeys = []string{KeyPlace, KeyRegion, KeyGender}
)

var prettyOptions = &pretty.Options{
	Width:  80,
	Prefix: "",
	Indent: "  ",
}

// Fields are the decoded attributes of an identifier. A nil field is unknown
// and serializes as null.
type Fields struct {
	Day    *int
	Month  *int
	Year   *int
	Place  *string
	Region *string
	Gender *string
}

// EmptyFields returns fields with every value unknown.
func EmptyFields() Fields {
	return Fields{}
}

// FromDecoded converts oracle output to Fields. Empty strings become unknown.
func FromDecoded(d jmbg.Decoded) Fields {
	return Fields{
		Day:    intPtr(d.Day),
		Month:  intPtr(d.Month),
		Year:   intPtr(d.Year),
		Place:  stringPtr(d.Place),
		Region: stringPtr(d.Region),
		Gender: stringPtr(d.Gender),
	}
}

// Merge returns f with every known field of other laid over it.
func (f Fields) Merge(other Fields) Fields {
	out := f
	if other.Day != nil {
		out.Day = other.Day
	}
	if other.Month != nil {
		out.Month = other.Month
	}
	if other.Year != nil {
		out.Year = other.Year
	}
	if other.Place != nil {
		out.Place = other.Place
	}
	if other.Region != nil {
		out.Region = other.Region
	}
	if other.Gender != nil {
		out.Gender = other.Gender
	}
	return out
}

// IsEmpty reports whether every field is unknown.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// MarshalJSON writes the fields as an object with keys in fixed order.
func (f Fields) MarshalJSON() ([]byte, error) {
	ints := map[string]*int{KeyDay: f.Day, KeyMonth: f.Month, KeyYear: f.Year}
	strs := map[string]*string{KeyPlace: f.Place, KeyRegion: f.Region, KeyGender: f.Gender}

	buf := []byte("{}")
	var err error
	for _, key := range intKeys {
		if v := ints[key]; v != nil {
			buf, err = sjson.SetBytes(buf, key, *v)
		} else {
			buf, err = sjson.SetRawBytes(buf, key, []byte("null"))
		}
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	for _, key := range stringKeys {
		if v := strs[key]; v != nil {
			buf, err = sjson.SetBytes(buf, key, *v)
		} else {
			buf, err = sjson.SetRawBytes(buf, key, []byte("null"))
		}
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	return buf, nil
}

// UnmarshalJSON reads fields written by MarshalJSON. Missing keys are unknown.
func (f *Fields) UnmarshalJSON(data []byte) error {
	parsed, err := ParseFields(data)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Pretty returns the fields as JSON indented by two spaces, without a
// trailing newline.
func (f Fields) Pretty() (string, error) {
	raw, err := f.MarshalJSON()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(pretty.PrettyOptions(raw, prettyOptions)), "\n"), nil
}

// ParseFields reads a JSON object into Fields.
func ParseFields(data []byte) (Fields, error) {
	if !gjson.ValidBytes(data) {
		return Fields{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	return fieldsFrom(gjson.ParseBytes(data))
}

func fieldsFrom(obj gjson.Result) (Fields, error) {
	if obj.Type == gjson.Null {
		return EmptyFields(), nil
	}
	if !obj.IsObject() {
		return Fields{}, fmt.Errorf("%w: decoded is not an object", ErrMalformed)
	}

	var f Fields
	ints := map[string]**int{KeyDay: &f.Day, KeyMonth: &f.Month, KeyYear: &f.Year}
	for _, key := range intKeys {
		v := obj.Get(key)
		switch v.Type {
		case gjson.Null:
		case gjson.Number:
			n := int(v.Int())
			*ints[key] = &n
		default:
			return Fields{}, fmt.Errorf("%w: %s is not a number", ErrMalformed, key)
		}
	}

	strs := map[string]**string{KeyPlace: &f.Place, KeyRegion: &f.Region, KeyGender: &f.Gender}
	for _, key := range stringKeys {
		v := obj.Get(key)
		switch v.Type {
		case gjson.Null:
		case gjson.String:
			s := v.String()
			*strs[key] = &s
		default:
			return Fields{}, fmt.Errorf("%w: %s is not a string", ErrMalformed, key)
		}
	}
	return f, nil
}

func intPtr(v int) *int {
	return &v
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
