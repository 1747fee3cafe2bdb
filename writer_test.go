package csvcore

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterWriteRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records [][]string
		tweak   func(*Dialect)
		want    string
	}{
		{
			name:    "basic",
			records: [][]string{{"a", "b", "c"}},
			want:    "a,b,c\n",
		},
		{
			name: "multipleRecords",
			records: [][]string{
				{"alpha", "beta"},
				{"gamma", "delta"},
			},
			want: "alpha,beta\ngamma,delta\n",
		},
		{
			name:    "emptyField",
			records: [][]string{{"", "b"}},
			want:    ",b\n",
		},
		{
			name:    "commaForcesQuote",
			records: [][]string{{"alpha,beta"}},
			want:    "\"alpha,beta\"\n",
		},
		{
			name: "quoteEscaping",
			records: [][]string{
				{"he said \"hello\"", "plain"},
			},
			want: "\"he said \"\"hello\"\"\",plain\n",
		},
		{
			name: "newlineForcesQuote",
			records: [][]string{
				{"multi\nline", "z"},
			},
			want: "\"multi\nline\",z\n",
		},
		{
			name:    "customComma",
			records: [][]string{{"a;b", "c"}},
			tweak:   func(d *Dialect) { d.Delimiter = ";" },
			want:    "\"a;b\";c\n",
		},
		{
			name:    "customQuote",
			records: [][]string{{"alpha'beta", "plain"}},
			tweak:   func(d *Dialect) { d.Quote = '\''; d.Escape = '\'' },
			want:    "'alpha''beta',plain\n",
		},
		{
			name:    "useCRLF",
			records: [][]string{{"a"}, {"b"}},
			tweak:   func(d *Dialect) { d.Newline = "\r\n" },
			want:    "a\r\nb\r\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			d := DefaultDialect()
			if tc.tweak != nil {
				tc.tweak(&d)
			}
			w, err := NewWriter(&buf, d)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			for _, rec := range tc.records {
				if err := w.WriteRecord(rec); err != nil {
					t.Fatalf("WriteRecord() error = %v", err)
				}
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestWriterWriteHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultDialect())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteHeader([]string{"name", "age"}); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if err := w.WriteRecord([]string{"alice", "30"}); err != nil {
		t.Fatalf("WriteRecord() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := "name,age\nalice,30\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

func TestWriterInjectionEscape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DefaultDialect()
	d.InjectionOption = InjectionEscape
	w, err := NewWriter(&buf, d)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteField("=SUM(A1)", nil); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	if err := w.NextRecord(); err != nil {
		t.Fatalf("NextRecord() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := "\"'=SUM(A1)\"\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

func TestWriterInjectionStrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DefaultDialect()
	d.InjectionOption = InjectionStrip
	w, err := NewWriter(&buf, d)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteField("@@cmd", nil); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	if err := w.NextRecord(); err != nil {
		t.Fatalf("NextRecord() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := "cmd\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

// TestWriterInjectionStripPreQuoted covers the field whose *content*
// already arrives wrapped in literal quote bytes (not CSV-level quoting,
// which the Writer adds separately): Strip must look just inside that
// opening quote for the triggering character, not at field[0], and must
// keep the literal quote bytes in its output.
func TestWriterInjectionStripPreQuoted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DefaultDialect()
	d.InjectionOption = InjectionStrip
	w, err := NewWriter(&buf, d)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteField(`"@@cmd"`, nil); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	if err := w.NextRecord(); err != nil {
		t.Fatalf("NextRecord() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	// Sanitize strips the leading "@@" just inside the literal quotes,
	// leaving `"cmd"` as the field's content; the Writer then CSV-quotes
	// that content for real, doubling the two literal quote bytes.
	want := `"""cmd"""` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

// TestWriterInjectionEscapePreQuoted mirrors the same pre-quoted case for
// Escape mode: the escape character is inserted just inside the literal
// opening quote (spec §4.6's "'=A1" example), not prepended to the whole
// field.
func TestWriterInjectionEscapePreQuoted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DefaultDialect()
	d.InjectionOption = InjectionEscape
	w, err := NewWriter(&buf, d)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteField(`"=A1"`, nil); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	if err := w.NextRecord(); err != nil {
		t.Fatalf("NextRecord() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := `"""'=A1"""` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

func TestWriterInjectionException(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DefaultDialect()
	d.InjectionOption = InjectionException
	w, err := NewWriter(&buf, d)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	err = w.WriteField("+1+1", nil)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Kind != KindInjection {
		t.Fatalf("WriteField() error = %v, want *ParseError{Kind: KindInjection}", err)
	}
}

type flushFailWriter struct {
	fail error
}

func (f *flushFailWriter) Write([]byte) (int, error) {
	return 0, f.fail
}

func TestWriterFlushError(t *testing.T) {
	t.Parallel()

	exp := errors.New("flush failed")
	w, err := NewWriter(&flushFailWriter{fail: exp}, DefaultDialect())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if err := w.WriteRecord([]string{"a"}); err != nil {
		t.Fatalf("WriteRecord() error = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, exp) {
		t.Fatalf("expected flush error %v, got %v", exp, err)
	}
	if err := w.WriteRecord([]string{"b"}); !errors.Is(err, exp) {
		t.Fatalf("WriteRecord() should return stored error %v, got %v", exp, err)
	}
}
