package jmbg

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
	"unicode/utf8"
)

// Length is the number of digits in a JMBG.
const Length = 13

// ErrInvalid is returned by Decode for identifiers that fail validation.
var ErrInvalid = errors.New("invalid jmbg")

// Gender values produced by Decode.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// checksum weights applied to digit pairs (a,g) (b,h) ... (f,l).
var weights = [6]int{7, 6, 5, 4, 3, 2}

// Result is the outcome of Validate.
type Result struct {
	Valid  bool
	Reason Reason
}

// Decoded holds the attributes encoded in a valid identifier.
// Place and Region are empty when the region code is not assigned.
type Decoded struct {
	Day    int
	Month  int
	Year   int
	Place  string
	Region string
	Gender string
}

// Validate checks text against the JMBG layout, birth date and control digit,
// in that order, and reports the first failure.
func Validate(text string) Result {
	if !utf8.ValidString(text) {
		return Result{Reason: ReasonNotText}
	}
	digits, ok := parseDigits(text)
	if !ok {
		return Result{Reason: ReasonWrongLength}
	}
	if _, _, _, ok := birthDate(digits); !ok {
		return Result{Reason: ReasonInvalidDate}
	}
	if ControlDigit(digits[:12]) != digits[12] {
		return Result{Reason: ReasonInvalidChecksum}
	}
	return Result{Valid: true, Reason: ReasonNone}
}

// Decode extracts the birth date, region, place and gender from text.
func Decode(text string) (Decoded, error) {
	res := Validate(text)
	if !res.Valid {
		return Decoded{}, fmt.Errorf("%w: %s", ErrInvalid, res.Reason)
	}

	digits, _ := parseDigits(text)
	day, month, year, _ := birthDate(digits)
	code := digits[7]*10 + digits[8]
	serial := digits[9]*100 + digits[10]*10 + digits[11]

	d := Decoded{
		Day:    day,
		Month:  month,
		Year:   year,
		Place:  places[code],
		Region: regions[digits[7]],
		Gender: GenderMale,
	}
	if serial >= 500 {
		d.Gender = GenderFemale
	}
	return d, nil
}

// ControlDigit computes the control digit for the first twelve digits.
// It panics if fewer than twelve digits are supplied.
func ControlDigit(digits []int) int {
	sum := 0
	for i, w := range weights {
		sum += w * (digits[i] + digits[i+6])
	}
	m := 11 - sum%11
	if m > 9 {
		return 0
	}
	return m
}

// Generate returns a random valid identifier. Birth dates fall between
// 1900 and 2019 and region codes are drawn from assigned places only.
func Generate(rng *rand.Rand) string {
	start := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC).Sub(start).Hours() / 24)
	birth := start.AddDate(0, 0, rng.IntN(days+1))

	codes := placeCodes()
	code := codes[rng.IntN(len(codes))]
	serial := rng.IntN(1000)

	digits := make([]int, 0, Length)
	digits = append(digits, birth.Day()/10, birth.Day()%10)
	digits = append(digits, int(birth.Month())/10, int(birth.Month())%10)
	yyy := birth.Year() % 1000
	digits = append(digits, yyy/100, yyy/10%10, yyy%10)
	digits = append(digits, code/10, code%10)
	digits = append(digits, serial/100, serial/10%10, serial%10)
	digits = append(digits, ControlDigit(digits))

	buf := make([]byte, Length)
	for i, d := range digits {
		buf[i] = byte('0' + d)
	}
	return string(buf)
}

// parseDigits converts exactly Length ASCII digits into ints.
func parseDigits(text string) ([]int, bool) {
	if len(text) != Length {
		return nil, false
	}
	digits := make([]int, Length)
	for i := 0; i < Length; i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}

// birthDate decodes DDMMYYY and reports whether it names a real date.
// A leading 9 in YYY places the year in the 1900s, otherwise the 2000s.
func birthDate(digits []int) (day, month, year int, ok bool) {
	day = digits[0]*10 + digits[1]
	month = digits[2]*10 + digits[3]
	yyy := digits[4]*100 + digits[5]*10 + digits[6]
	if digits[4] == 9 {
		year = 1000 + yyy
	} else {
		year = 2000 + yyy
	}

	if month < 1 || month > 12 || day < 1 {
		return day, month, year, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return day, month, year, false
	}
	return day, month, year, true
}
