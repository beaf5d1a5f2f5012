package jmbg

// Reason identifies why an identifier failed validation.
type Reason uint8

const (
	// ReasonNone means the identifier is valid.
	ReasonNone Reason = iota

	// ReasonNotText means the input is not valid UTF-8 text.
	ReasonNotText

	// ReasonWrongLength means the input is not exactly 13 ASCII digits.
	ReasonWrongLength

	// ReasonInvalidDate means the encoded birth date does not exist.
	ReasonInvalidDate

	// ReasonInvalidChecksum means the control digit does not match.
	ReasonInvalidChecksum
)

// String returns the stable reason code.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonNotText:
		return "NOT_TEXT"
	case ReasonWrongLength:
		return "MUST_CONTAIN_EXACTLY_13_DIGITS"
	case ReasonInvalidDate:
		return "INVALID_DATE"
	case ReasonInvalidChecksum:
		return "INVALID_CONTROL_NUMBER"
	default:
		return "UNKNOWN"
	}
}

// Message returns the human-readable description shown to users.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNotText:
		return "Not text"
	case ReasonWrongLength:
		return "Must contain exactly 13 digits"
	case ReasonInvalidDate:
		return "Invalid date"
	case ReasonInvalidChecksum:
		return "Invalid control number"
	default:
		return "Unknown reason"
	}
}

// ParseReason maps a reason code produced by String back to a Reason.
func ParseReason(code string) (Reason, bool) {
	switch code {
	case "NONE":
		return ReasonNone, true
	case "NOT_TEXT":
		return ReasonNotText, true
	case "MUST_CONTAIN_EXACTLY_13_DIGITS":
		return ReasonWrongLength, true
	case "INVALID_DATE":
		return ReasonInvalidDate, true
	case "INVALID_CONTROL_NUMBER":
		return ReasonInvalidChecksum, true
	default:
		return ReasonNone, false
	}
}
