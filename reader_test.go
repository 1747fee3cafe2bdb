package csvcore

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func readAll(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var records [][]string
	for {
		ok, err := r.Read()
		if err != nil {
			t.Fatalf("Read() returned unexpected error: %v", err)
		}
		if !ok {
			return records
		}
		row := make([]string, r.Count())
		for i := range row {
			v, err := r.Field(i)
			if err != nil {
				t.Fatalf("Field(%d) error = %v", i, err)
			}
			row[i] = v
		}
		records = append(records, row)
	}
}

func TestReaderReadRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		tweak func(*Dialect)
		want  [][]string
	}{
		{
			name:  "basicRecords",
			input: "one,two\nthree,four\n",
			want: [][]string{
				{"one", "two"},
				{"three", "four"},
			},
		},
		{
			name:  "finalRecordWithoutTerminator",
			input: "alpha,beta,gamma",
			want: [][]string{
				{"alpha", "beta", "gamma"},
			},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want: [][]string{
				{"a", "b"},
				{"c", "d"},
			},
		},
		{
			name:  "quotedComma",
			input: "a,\"b,b\",c\n",
			want: [][]string{
				{"a", "b,b", "c"},
			},
		},
		{
			name:  "escapedQuote",
			input: "a,\"b\"\"c\",d\n",
			want: [][]string{
				{"a", "b\"c", "d"},
			},
		},
		{
			name:  "embeddedNewline",
			input: "a,\"b\nc\",d\n",
			want: [][]string{
				{"a", "b\nc", "d"},
			},
		},
		{
			name:  "emptyFields",
			input: ",,\n",
			want: [][]string{
				{"", "", ""},
			},
		},
		{
			name:  "customComma",
			input: "left;right\nup;down\n",
			tweak: func(d *Dialect) { d.Delimiter = ";" },
			want: [][]string{
				{"left", "right"},
				{"up", "down"},
			},
		},
		{
			name:  "customQuote",
			input: "alpha,'beta''gamma',delta\n",
			tweak: func(d *Dialect) { d.Quote = '\''; d.Escape = '\'' },
			want: [][]string{
				{"alpha", "beta'gamma", "delta"},
			},
		},
		{
			name:  "quotedEOF",
			input: "\"quoted\"",
			want: [][]string{
				{"quoted"},
			},
		},
		{
			name:  "carriageReturnEOF",
			input: "one\rtwo",
			want: [][]string{
				{"one"},
				{"two"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := DefaultDialect()
			if tc.tweak != nil {
				tc.tweak(&d)
			}
			r, err := NewReader(strings.NewReader(tc.input), d)
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}

			records := readAll(t, r)
			if !reflect.DeepEqual(records, tc.want) {
				t.Fatalf("Read() records mismatch:\n got: %#v\nwant: %#v", records, tc.want)
			}
		})
	}
}

func TestReaderFieldsPerRecord(t *testing.T) {
	t.Parallel()

	t.Run("autoDetectFirstRecord", func(t *testing.T) {
		t.Parallel()

		d := DefaultDialect()
		d.DetectColumnCountChanges = true
		r, err := NewReader(strings.NewReader("a,b\nc,d\n"), d)
		if err != nil {
			t.Fatalf("NewReader() error = %v", err)
		}

		ok, err := r.Read()
		if err != nil || !ok {
			t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
		}
		if r.Count() != 2 {
			t.Fatalf("Count() = %d, want 2", r.Count())
		}

		if ok, err := r.Read(); err != nil || !ok {
			t.Fatalf("Read() second record = %v, %v, want true, nil", ok, err)
		}
	})

	t.Run("mismatchReturnsError", func(t *testing.T) {
		t.Parallel()

		d := DefaultDialect()
		d.DetectColumnCountChanges = true
		r, err := NewReader(strings.NewReader("x,y\n1,2,3\n"), d)
		if err != nil {
			t.Fatalf("NewReader() error = %v", err)
		}

		if ok, err := r.Read(); err != nil || !ok {
			t.Fatalf("Read() first record = %v, %v, want true, nil", ok, err)
		}

		_, err = r.Read()
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != KindColumnCount {
			t.Fatalf("Read() error = %v, want *ParseError{Kind: KindColumnCount}", err)
		}
	})
}

func TestParserByteCount(t *testing.T) {
	t.Parallel()

	d := DefaultDialect()
	d.CountBytes = true
	p, err := NewParser(strings.NewReader("ab,cde\n"), d)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	if ok, err := p.Read(); err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	if _, err := p.Field(0); err != nil {
		t.Fatalf("Field(0) error = %v", err)
	}
	if _, err := p.Field(1); err != nil {
		t.Fatalf("Field(1) error = %v", err)
	}
	if p.ByteCount() != 5 {
		t.Fatalf("ByteCount() = %d, want 5", p.ByteCount())
	}

	d.Encoding = func(s string) int { return len(s) * 2 }
	p2, err := NewParser(strings.NewReader("ab,cde\n"), d)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	if ok, err := p2.Read(); err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	if _, err := p2.Field(0); err != nil {
		t.Fatalf("Field(0) error = %v", err)
	}
	if _, err := p2.Field(1); err != nil {
		t.Fatalf("Field(1) error = %v", err)
	}
	if p2.ByteCount() != 10 {
		t.Fatalf("ByteCount() with custom Encoding = %d, want 10", p2.ByteCount())
	}
}

func TestReaderHeaderAndNamedFields(t *testing.T) {
	t.Parallel()

	d := DefaultDialect()
	d.HasHeaderRecord = true
	r, err := NewReader(strings.NewReader("Name,Age\nAlice,30\nBob,40\n"), d)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	ok, err := r.Read()
	if err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	if got := r.Header(); !reflect.DeepEqual(got, []string{"Name", "Age"}) {
		t.Fatalf("Header() = %v", got)
	}
	name, err := r.FieldByName("Name", 0)
	if err != nil || name != "Alice" {
		t.Fatalf("FieldByName(Name) = %q, %v, want Alice, nil", name, err)
	}
	if _, ok := r.TryFieldByName("Missing", 0); ok {
		t.Fatalf("TryFieldByName(Missing) unexpectedly ok")
	}
	if got := r.ColumnName(0); got != "Name" {
		t.Fatalf("ColumnName(0) = %q, want Name", got)
	}
}

func TestReaderColumnNameWithoutHeader(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("a,b\n"), DefaultDialect())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if ok, err := r.Read(); err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	if got := r.ColumnName(0); got != "Field0" {
		t.Fatalf("ColumnName(0) = %q, want Field0", got)
	}

	var hookCol int
	r2, err := NewReader(strings.NewReader("a,b\n"), Dialect{
		Delimiter: ",", Quote: '"', Escape: '"',
		Hooks: Hooks{GetDynamicPropertyName: func(i int, ctx Context) string {
			hookCol = i
			return "col"
		}},
	})
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if ok, err := r2.Read(); err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	if got := r2.ColumnName(1); got != "col" || hookCol != 1 {
		t.Fatalf("ColumnName(1) = %q (hookCol=%d), want col, 1", got, hookCol)
	}
}

func TestReaderRecords(t *testing.T) {
	t.Parallel()

	d := DefaultDialect()
	d.HasHeaderRecord = true
	r, err := NewReader(strings.NewReader("a,b\n1,2\n3,4\n"), d)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	var got [][]string
	if err := r.Records(func(row []string) error {
		got = append(got, append([]string(nil), row...))
		return nil
	}); err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	want := [][]string{{"1", "2"}, {"3", "4"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Records() = %#v, want %#v", got, want)
	}
}

func TestReaderBadDataRecovery(t *testing.T) {
	t.Parallel()

	var badField, badRaw string
	d := DefaultDialect()
	d.Hooks.BadDataFound = func(field, rawRecord string, ctx Context) {
		badField, badRaw = field, rawRecord
	}
	d.IncludeRawRecordInErrors = true

	r, err := NewReader(strings.NewReader("  \"a\"  ,b\n"), d)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	ok, err := r.Read()
	if err != nil || !ok {
		t.Fatalf("Read() = %v, %v, want true, nil", ok, err)
	}
	v0, err := r.Field(0)
	if err != nil {
		t.Fatalf("Field(0) error = %v", err)
	}
	if v0 != `  "a"  ` {
		t.Fatalf("Field(0) = %q, want raw verbatim", v0)
	}
	if !r.parser.IsFieldBad(0) {
		t.Fatalf("IsFieldBad(0) = false, want true")
	}
	if badField != `  "a"  ` {
		t.Fatalf("BadDataFound field = %q", badField)
	}
	if !strings.Contains(badRaw, `"a"`) {
		t.Fatalf("BadDataFound rawRecord = %q", badRaw)
	}
}

func TestReaderLineBreakInQuotedFieldIsBadData(t *testing.T) {
	t.Parallel()

	// spec.md §8 scenario 3: bad_data_found must see the raw, still-quoted
	// field text (leading quote retained, not yet decoded) and the raw
	// record up to that point.
	var badField, badRaw string
	d := DefaultDialect()
	d.LineBreakInQuotedFieldIsBadData = true
	d.IncludeRawRecordInErrors = true
	d.Hooks.BadDataFound = func(field, rawRecord string, ctx Context) {
		badField, badRaw = field, rawRecord
	}
	r, err := NewReader(strings.NewReader("a,\"b\nc\",d\nx,y,z\n"), d)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	ok, err := r.Read()
	if err != nil || !ok {
		t.Fatalf("Read() row 1 = %v, %v", ok, err)
	}
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 (row terminates at embedded newline)", r.Count())
	}
	v1, _ := r.Field(1)
	if v1 != "b" {
		t.Fatalf("Field(1) = %q, want \"b\"", v1)
	}
	if !r.parser.IsFieldBad(1) {
		t.Fatalf("IsFieldBad(1) = false, want true")
	}
	if badField != `"b` {
		t.Fatalf("BadDataFound field = %q, want raw verbatim with leading quote `\"b`", badField)
	}
	if !strings.HasPrefix(badRaw, `a,"b`) {
		t.Fatalf("BadDataFound rawRecord = %q, want to start with `a,\"b`", badRaw)
	}

	// The embedded newline terminated row 1 mid-quote; what follows on the
	// next physical line ("c",d) is read as its own row rather than being
	// stitched back onto the field that was just cut short.
	ok, err = r.Read()
	if err != nil || !ok {
		t.Fatalf("Read() row 2 = %v, %v", ok, err)
	}
	got := make([]string, r.Count())
	for i := range got {
		got[i], _ = r.Field(i)
	}
	if !reflect.DeepEqual(got, []string{`c"`, "d"}) {
		t.Fatalf("second row = %#v, want [c\" d]", got)
	}

	ok, err = r.Read()
	if err != nil || !ok {
		t.Fatalf("Read() row 3 = %v, %v", ok, err)
	}
	got = make([]string, r.Count())
	for i := range got {
		got[i], _ = r.Field(i)
	}
	if !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("third row = %#v, want [x y z]", got)
	}
}

func TestParseErrorMethods(t *testing.T) {
	t.Parallel()

	err := newParseError(KindBadData, 3, 3, 1, "raw", true, nil)
	if got := err.Error(); got == "" || !strings.Contains(got, "row 3") {
		t.Fatalf("Error() returned %q, want descriptive output", got)
	}
	if !errors.Is(err, ErrBadData) {
		t.Fatalf("ParseError should unwrap to ErrBadData")
	}

	var nilErr *ParseError
	if nilErr.Error() != "" {
		t.Fatalf("nil ParseError should return empty string")
	}
	if nilErr.Unwrap() != nil {
		t.Fatalf("nil ParseError should return nil from Unwrap")
	}
}
