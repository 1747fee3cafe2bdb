package csvcore

import (
	"bufio"
	"errors"
	"io"

	"github.com/oleg578/csvcore/injection"
)

var (
	errNilWriter      = errors.New("csvcore: writer is nil")
	errWriterNoTarget = errors.New("csvcore: writer destination cannot be nil")
)

// Writer is the streaming serializer (spec §4.5): it mirrors the Parser's
// dialect rules on the way out, and independently consults the injection
// sanitizer before a field is ever quoted.
type Writer struct {
	dst     *bufio.Writer
	dialect Dialect

	column int // 0-based index of the next field within the current record
	row    []string
	err    error
	closer io.Closer
}

// NewWriter constructs a Writer over w under dialect d, validating d first.
func NewWriter(w io.Writer, d Dialect) (*Writer, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.WhitespaceChars == nil {
		d.WhitespaceChars = []byte(" \t")
	}
	wr := &Writer{dst: bufio.NewWriterSize(w, bufSizeOrDefault(d.BufferSize)), dialect: d}
	if c, ok := w.(io.Closer); ok && !d.LeaveOpen {
		wr.closer = c
	}
	return wr, nil
}

func bufSizeOrDefault(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

// Close flushes and, unless LeaveOpen was set, closes the underlying sink.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error { return w.err }

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteHeader writes names as a record. The names are not kept once the
// record ends: ShouldQuote's row argument only ever holds the fields
// written so far in the current record.
func (w *Writer) WriteHeader(names []string) error {
	for _, n := range names {
		if err := w.WriteField(n, nil); err != nil {
			return err
		}
	}
	return w.NextRecord()
}

// WriteComment writes text as a comment line (Dialect.Comment followed by
// text), only valid when AllowComments is set.
func (w *Writer) WriteComment(text string) error {
	if w.err != nil {
		return w.err
	}
	if !w.dialect.AllowComments {
		return configError("WriteComment requires AllowComments")
	}
	if err := w.dst.WriteByte(w.dialect.Comment); err != nil {
		w.err = err
		return err
	}
	if _, err := w.dst.WriteString(text); err != nil {
		w.err = err
		return err
	}
	if _, err := w.dst.WriteString(w.dialect.writeNewline()); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteField writes one field of the current record. When shouldQuote is
// non-nil, it overrides the dialect's default quoting predicate.
func (w *Writer) WriteField(field string, shouldQuote *bool) error {
	return w.writeFieldTyped(field, "", shouldQuote)
}

// WriteTypedField writes one field, passing declaredType to the
// ShouldQuote hook (e.g. to leave numeric columns unquoted).
func (w *Writer) WriteTypedField(field, declaredType string) error {
	return w.writeFieldTyped(field, declaredType, nil)
}

func (w *Writer) writeFieldTyped(field, declaredType string, override *bool) error {
	if w.err != nil {
		return w.err
	}

	sanitized, forceQuote, err := w.sanitize(field)
	if err != nil {
		w.err = err
		return err
	}

	if w.column > 0 {
		if _, err := w.dst.WriteString(w.dialect.Delimiter); err != nil {
			w.err = err
			return err
		}
	}

	var werr error
	switch w.dialect.Mode {
	case ModeNoEscape:
		_, werr = w.dst.WriteString(sanitized)
	case ModeEscape:
		werr = w.writeEscaped(sanitized)
	default:
		quote := forceQuote || w.decideQuote(sanitized, declaredType, override)
		if quote {
			werr = w.writeQuoted(sanitized)
		} else {
			_, werr = w.dst.WriteString(sanitized)
		}
	}
	if werr != nil {
		w.err = werr
		return werr
	}

	w.row = append(w.row, sanitized)
	w.column++
	return nil
}

// sanitize runs the configured injection option over field. forceQuote is
// set when InjectionEscape actually modified the field: the escape
// character only reads as inert text to a spreadsheet application when the
// whole field is also CSV-quoted.
func (w *Writer) sanitize(field string) (sanitized string, forceQuote bool, err error) {
	var opt injection.Option
	switch w.dialect.InjectionOption {
	case InjectionException:
		opt = injection.Exception
	case InjectionEscape:
		opt = injection.Escape
	case InjectionStrip:
		opt = injection.Strip
	default:
		return field, false, nil
	}
	out, serr := injection.Sanitize(field, opt, w.dialect.InjectionCharacters, w.dialect.InjectionEscapeCharacter, w.dialect.Quote)
	if serr != nil {
		return "", false, newParseError(KindInjection, 0, 0, w.column, field, w.dialect.IncludeRawRecordInErrors, serr)
	}
	return out, opt == injection.Escape && out != field, nil
}

func (w *Writer) decideQuote(field, declaredType string, override *bool) bool {
	if override != nil {
		return *override
	}
	if w.dialect.Hooks.ShouldQuote != nil {
		return w.dialect.Hooks.ShouldQuote(field, declaredType, w.row)
	}
	return fieldNeedsQuote(field, &w.dialect)
}

func (w *Writer) writeQuoted(field string) error {
	if err := w.dst.WriteByte(w.dialect.Quote); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == w.dialect.Quote {
			if start < i {
				if _, err := w.dst.WriteString(field[start:i]); err != nil {
					return err
				}
			}
			if w.dialect.Escape == w.dialect.Quote {
				if _, err := w.dst.Write([]byte{w.dialect.Quote, w.dialect.Quote}); err != nil {
					return err
				}
			} else {
				if _, err := w.dst.Write([]byte{w.dialect.Escape, w.dialect.Quote}); err != nil {
					return err
				}
			}
			start = i + 1
		}
	}
	if start < len(field) {
		if _, err := w.dst.WriteString(field[start:]); err != nil {
			return err
		}
	}
	return w.dst.WriteByte(w.dialect.Quote)
}

func (w *Writer) writeEscaped(field string) error {
	d := &w.dialect
	triggers := func(c byte) bool {
		return c == d.Escape || matchesAny(c, d.Delimiter) || c == '\n' || c == '\r'
	}
	start := 0
	for i := 0; i < len(field); i++ {
		if triggers(field[i]) {
			if start < i {
				if _, err := w.dst.WriteString(field[start:i]); err != nil {
					return err
				}
			}
			if err := w.dst.WriteByte(d.Escape); err != nil {
				return err
			}
			if _, err := w.dst.Write([]byte{field[i]}); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if start < len(field) {
		if _, err := w.dst.WriteString(field[start:]); err != nil {
			return err
		}
	}
	return nil
}

func matchesAny(c byte, s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

// NextRecord terminates the current record with the dialect's newline and
// resets the column cursor.
func (w *Writer) NextRecord() error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.dst.WriteString(w.dialect.writeNewline()); err != nil {
		w.err = err
		return err
	}
	w.column = 0
	w.row = w.row[:0]
	return nil
}

// WriteRecord is a convenience wrapper around WriteField+NextRecord for a
// whole []string record.
func (w *Writer) WriteRecord(record []string) error {
	for _, f := range record {
		if err := w.WriteField(f, nil); err != nil {
			return err
		}
	}
	return w.NextRecord()
}

// fieldNeedsQuote implements the default RFC4180 quoting predicate: quote
// when the field contains the delimiter, the quote character, or a
// newline, or when it begins/ends with whitespace that TrimOutside on the
// read side would otherwise eat.
func fieldNeedsQuote(field string, d *Dialect) bool {
	if field == "" {
		return false
	}
	if d.whitespace(field[0]) || d.whitespace(field[len(field)-1]) {
		return true
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case d.Quote, '\n', '\r':
			return true
		}
	}
	return containsSubstr(field, d.Delimiter)
}

func containsSubstr(s, sub string) bool {
	if len(sub) == 0 || len(sub) > len(s) {
		return false
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
