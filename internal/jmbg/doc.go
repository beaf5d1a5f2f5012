// Package jmbg validates and decodes JMBG identifiers.
//
// A JMBG (jedinstveni matični broj građana) is a 13 digit identifier laid out
// as DDMMYYYRRBBBK:
//
//   - DD, MM, YYY: day, month and the last three digits of the birth year
//   - RR: political region of birth (tens digit) and place (both digits)
//   - BBB: serial number; 000-499 are male, 500-999 are female
//   - K: control digit (mod 11 checksum over the first twelve digits)
//
// Validation never panics and never returns an error: an invalid identifier
// is reported through a Reason code. Decode is only meaningful for valid
// input and returns ErrInvalid otherwise.
//
// # Basic Usage
//
//	res := jmbg.Validate("0101990710008")
//	if !res.Valid {
//	    fmt.Println(res.Reason.Message())
//	}
//
//	d, err := jmbg.Decode("0101990710008")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d.Year, d.Region)
package jmbg
