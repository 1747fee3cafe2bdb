// Package injection implements the spreadsheet-formula injection sanitizer
// (spec §4.6): a write-side guard against fields whose leading byte would
// be interpreted as a formula by a downstream spreadsheet application
// (Excel, LibreOffice, Google Sheets) when the CSV is opened there.
package injection

import "errors"

// ErrDetected is returned by Sanitize under Exception when field begins
// with one of characters.
var ErrDetected = errors.New("injection: field begins with a formula-triggering character")

// Option selects how Sanitize reacts to a triggering leading character.
type Option int

const (
	// None performs no detection; Sanitize returns field unchanged.
	None Option = iota
	// Exception fails with ErrDetected.
	Exception
	// Escape prepends escapeChar, so the field remains visibly quoted
	// around the triggering character instead of being interpreted as a
	// formula (e.g. =SUM(A1) becomes '=SUM(A1) written inside quotes).
	Escape
	// Strip removes every leading triggering character.
	Strip
)

// DefaultCharacters are the leading bytes spreadsheet applications commonly
// interpret as a formula prefix.
var DefaultCharacters = []byte{'=', '+', '-', '@'}

// Sanitize applies opt to field. characters defaults to DefaultCharacters
// and escapeChar to '\'' when zero.
//
// When field already carries a literal pair of quote bytes around its
// content (the caller's data, not CSV-level quoting added by the Writer),
// quote identifies them so the triggering character is found and handled
// just inside the opening quote rather than at field[0], and the quote
// bytes themselves are preserved in the output. Pass 0 for quote when the
// field is never pre-quoted.
func Sanitize(field string, opt Option, characters []byte, escapeChar, quote byte) (string, error) {
	if opt == None || field == "" {
		return field, nil
	}
	if len(characters) == 0 {
		characters = DefaultCharacters
	}
	if escapeChar == 0 {
		escapeChar = '\''
	}

	preQuoted := quote != 0 && len(field) >= 2 && field[0] == quote && field[len(field)-1] == quote
	check := 0
	if preQuoted {
		check = 1
	}
	if len(field) <= check || !triggers(field[check], characters) {
		return field, nil
	}

	switch opt {
	case Exception:
		return "", ErrDetected
	case Escape:
		if preQuoted {
			return field[:1] + string(escapeChar) + field[1:], nil
		}
		return string(escapeChar) + field, nil
	case Strip:
		if preQuoted {
			i := 1
			for i < len(field)-1 && triggers(field[i], characters) {
				i++
			}
			return field[:1] + field[i:], nil
		}
		i := 0
		for i < len(field) && triggers(field[i], characters) {
			i++
		}
		return field[i:], nil
	default:
		return field, nil
	}
}

func triggers(c byte, characters []byte) bool {
	for _, t := range characters {
		if c == t {
			return true
		}
	}
	return false
}
