package csvcore

import (
	"io"
	"strconv"
)

// Reader is the row-cursor facade (spec §4.4) built on top of Parser: it
// adds header capture and named-field lookup, the should-skip-record hook,
// and the column-count invariant. Reader is not safe for concurrent use.
type Reader struct {
	parser *Parser

	header      *headerIndex
	headerNames []string
	headerSeen  bool

	columnCount    int
	columnCountSet bool
}

// NewReader constructs a Reader over r under dialect d. When d.HasHeaderRecord
// is set, the first call to Read transparently consumes the header row.
func NewReader(r io.Reader, d Dialect) (*Reader, error) {
	p, err := NewParser(r, d)
	if err != nil {
		return nil, err
	}
	return &Reader{parser: p}, nil
}

// Close releases the Reader's resources.
func (rd *Reader) Close() error { return rd.parser.Close() }

// Row returns the logical row number of the current record.
func (rd *Reader) Row() int64 { return rd.parser.Row() }

// RawRow returns the physical line number of the current record.
func (rd *Reader) RawRow() int64 { return rd.parser.RawRow() }

// RawRecord returns the verbatim bytes of the current record.
func (rd *Reader) RawRecord() string { return rd.parser.RawRecord() }

// Count returns the number of fields in the current record.
func (rd *Reader) Count() int { return rd.parser.Count() }

// Header returns the captured header row, or nil if there is none yet.
func (rd *Reader) Header() []string { return rd.headerNames }

// Dialect returns the effective dialect, reflecting any change delimiter
// auto-detection made.
func (rd *Reader) Dialect() Dialect { return rd.parser.Dialect() }

// Read advances to the next data record, transparently consuming the
// header row (if configured), skipped rows (via ShouldSkipRecord), and
// enforcing the column-count invariant (if configured). It reports false,
// nil at clean end of input.
func (rd *Reader) Read() (bool, error) {
	d := rd.parser.Dialect()

	for {
		ok, err := rd.parser.Read()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		if d.HasHeaderRecord && !rd.headerSeen {
			if err := rd.captureHeader(); err != nil {
				return false, err
			}
			rd.headerSeen = true
			continue
		}

		if d.Hooks.ShouldSkipRecord != nil {
			row, err := rd.materialize()
			if err != nil {
				return false, err
			}
			if d.Hooks.shouldSkip(row) {
				continue
			}
		}

		if d.DetectColumnCountChanges {
			n := rd.parser.Count()
			if !rd.columnCountSet {
				rd.columnCountSet = true
				rd.columnCount = n
			} else if n != rd.columnCount {
				cerr := newParseError(KindColumnCount, rd.parser.Row(), rd.parser.RawRow(), -1,
					rd.rawRecordForErr(), d.IncludeRawRecordInErrors, nil)
				if d.Hooks.readingException(cerr) {
					return false, cerr
				}
				continue
			}
		}

		return true, nil
	}
}

func (rd *Reader) captureHeader() error {
	names, err := rd.materialize()
	if err != nil {
		return err
	}
	rd.headerNames = names
	rd.header = buildHeaderIndex(names, rd.parser.Dialect().Hooks)
	rd.columnCountSet = true
	rd.columnCount = len(names)
	return nil
}

func (rd *Reader) materialize() ([]string, error) {
	n := rd.parser.Count()
	row := make([]string, n)
	for i := 0; i < n; i++ {
		v, err := rd.parser.Field(i)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func (rd *Reader) rawRecordForErr() string {
	if !rd.parser.dialect.IncludeRawRecordInErrors {
		return ""
	}
	return rd.parser.RawRecord()
}

// Field returns the decoded value of column i in the current record.
func (rd *Reader) Field(i int) (string, error) { return rd.parser.Field(i) }

// TryField is the non-throwing counterpart to Field.
func (rd *Reader) TryField(i int) (string, bool) { return rd.parser.TryField(i) }

// FieldByName returns the decoded value of the nth (0-based) occurrence of
// a named column, using the captured header.
func (rd *Reader) FieldByName(name string, nth int) (string, error) {
	if rd.header == nil {
		rd.parser.dialect.Hooks.missingField(nil, -1, rd.ctx(-1))
		return "", newParseError(KindMissingField, rd.parser.Row(), rd.parser.RawRow(), -1, rd.rawRecordForErr(), rd.parser.dialect.IncludeRawRecordInErrors, ErrMissingField)
	}
	idx, ok := rd.header.lookup(name, nth, rd.parser.dialect.Hooks)
	if !ok {
		rd.parser.dialect.Hooks.missingField(rd.headerNames, -1, rd.ctx(-1))
		return "", newParseError(KindMissingField, rd.parser.Row(), rd.parser.RawRow(), -1, rd.rawRecordForErr(), rd.parser.dialect.IncludeRawRecordInErrors, ErrMissingField)
	}
	return rd.parser.Field(idx)
}

// TryFieldByName is the non-throwing counterpart to FieldByName.
func (rd *Reader) TryFieldByName(name string, nth int) (string, bool) {
	if rd.header == nil {
		return "", false
	}
	idx, ok := rd.header.lookup(name, nth, rd.parser.dialect.Hooks)
	if !ok {
		return "", false
	}
	return rd.parser.TryField(idx)
}

// ValidateHeader compares the captured header against schema and invokes
// HeaderValidated with the schema entries that were not found. It returns
// the same list of invalid (unmatched) schema names.
func (rd *Reader) ValidateHeader(schema []string) []string {
	var invalid []string
	for _, name := range schema {
		if _, ok := rd.header.lookup(name, 0, rd.parser.dialect.Hooks); !ok {
			invalid = append(invalid, name)
		}
	}
	rd.parser.dialect.Hooks.headerValidated(invalid, rd.ctx(-1))
	return invalid
}

func (rd *Reader) ctx(field int) Context {
	return Context{Row: rd.parser.Row(), RawRow: rd.parser.RawRow(), Field: field, RawRecord: rd.rawRecordForErr()}
}

// ColumnName exposes the name a property-bag style consumer should use for
// column i: the captured header name when one exists, or the result of the
// GetDynamicPropertyName hook (a positional placeholder, e.g. "Field3", by
// default) when there is no header.
func (rd *Reader) ColumnName(i int) string {
	if i >= 0 && i < len(rd.headerNames) {
		return rd.headerNames[i]
	}
	if h := rd.parser.dialect.Hooks.GetDynamicPropertyName; h != nil {
		return h(i, rd.ctx(i))
	}
	return defaultColumnName(i)
}

func defaultColumnName(i int) string {
	return "Field" + strconv.Itoa(i)
}

// Records streams every remaining record as a []string, invoking fn for
// each. It is the lazy, single-pass, finite enumeration spec §6 describes:
// restart by constructing a new Reader, not by calling Records twice. Each
// call to fn receives a newly allocated slice, which fn may retain.
func (rd *Reader) Records(fn func(row []string) error) error {
	for {
		ok, err := rd.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		row, err := rd.materialize()
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
