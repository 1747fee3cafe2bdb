package csvcore

import "strings"

// Mode selects the quoting/escaping dialect a Parser or Writer applies.
type Mode int

const (
	// ModeRFC4180 is the default dialect: a quote character wraps a field
	// containing the delimiter, quote, or a newline; an embedded quote is
	// doubled (or, when Escape differs from Quote, escaped).
	ModeRFC4180 Mode = iota
	// ModeEscape makes a single escape character literal-ize the following
	// character, including delimiter, quote, newline, and itself. Quotes are
	// not structural in this dialect.
	ModeEscape
	// ModeNoEscape splits only on delimiter and newline; no character is
	// otherwise special.
	ModeNoEscape
)

func (m Mode) String() string {
	switch m {
	case ModeRFC4180:
		return "RFC4180"
	case ModeEscape:
		return "Escape"
	case ModeNoEscape:
		return "NoEscape"
	default:
		return "Mode(?)"
	}
}

// TrimOption is a bitmask of field-trimming behaviors.
type TrimOption int

const (
	// TrimNone performs no trimming.
	TrimNone TrimOption = 0
	// TrimOutside strips WhitespaceChars from the outside of a field (before
	// quote detection in RFC4180 mode).
	TrimOutside TrimOption = 1 << (iota - 1)
	// TrimInsideQuotes strips WhitespaceChars from just inside the opening
	// and closing quote of a quoted RFC4180 field.
	TrimInsideQuotes
)

// Has reports whether flag is set in t.
func (t TrimOption) Has(flag TrimOption) bool { return t&flag != 0 }

// InjectionOption selects how the Writer reacts to a field whose leading
// character could be interpreted as a spreadsheet formula by a downstream
// application.
type InjectionOption int

const (
	// InjectionNone performs no injection detection.
	InjectionNone InjectionOption = iota
	// InjectionException fails the write with ErrInjectionDetected.
	InjectionException
	// InjectionEscape prepends InjectionEscapeCharacter inside quotes.
	InjectionEscape
	// InjectionStrip removes leading injection characters.
	InjectionStrip
)

// DefaultInjectionCharacters are the leading characters spreadsheet
// applications commonly interpret as formulas.
var DefaultInjectionCharacters = []byte{'=', '+', '-', '@'}

// Dialect is the immutable-after-construction bundle of wire format,
// behavior, and callback settings consumed by the Parser, Reader, and
// Writer. Construct one with DefaultDialect and adjust the fields that
// differ from the default before passing it to NewParser/NewReader/
// NewWriter.
type Dialect struct {
	// Delimiter is the field separator. Must be non-empty and must not
	// contain Quote or a newline character.
	Delimiter string
	// Quote is the quote character.
	Quote byte
	// Escape is the escape character, commonly equal to Quote.
	Escape byte
	// Newline is the explicit record terminator. Empty means "accept any of
	// \r\n, \r, or \n" on read, and write \n on write.
	Newline string
	// Comment is the line-comment character, active only when AllowComments
	// is set.
	Comment byte
	// Mode selects the dialect (see Mode).
	Mode Mode
	// Trim controls field trimming (see TrimOption).
	Trim TrimOption
	// WhitespaceChars is the set of bytes TrimOutside/TrimInsideQuotes
	// strip. Defaults to " \t".
	WhitespaceChars []byte

	// AllowComments enables skipping lines whose first character is Comment.
	AllowComments bool
	// IgnoreBlankLines enables skipping all-newline rows.
	IgnoreBlankLines bool

	// DetectDelimiter enables delimiter auto-detection over the first
	// buffer fill.
	DetectDelimiter bool
	// DetectDelimiterCandidates is the candidate set consulted by
	// auto-detection. Defaults to {",", ";", "\t", "|"}.
	DetectDelimiterCandidates []string

	// BufferSize is the parser's initial buffer capacity.
	BufferSize int
	// ProcessFieldBufferSize is the processed-field buffer's initial
	// capacity.
	ProcessFieldBufferSize int
	// MaxFieldSize bounds a single field's raw extent. Zero disables the
	// check.
	MaxFieldSize int

	// CountBytes enables byte-count tracking via Encoding (advisory; the
	// parser itself always operates on bytes).
	CountBytes bool
	// Encoding computes the encoded byte length of a decoded field, used
	// only when CountBytes is set. Defaults to len(s).
	Encoding func(s string) int

	// LineBreakInQuotedFieldIsBadData treats a raw newline inside a quoted
	// field as bad data (and, in that case, as a row terminator) rather than
	// as field content.
	LineBreakInQuotedFieldIsBadData bool

	// DetectColumnCountChanges latches the column count of the first
	// non-empty row and reports a column-count error on any later row with
	// a different count.
	DetectColumnCountChanges bool

	// CacheFields interns decoded field strings through the field cache.
	CacheFields bool

	// HasHeaderRecord tells Reader that the first row is a header.
	HasHeaderRecord bool

	// IncludeRawRecordInErrors gates whether failure messages carry the raw
	// record text (off by default to avoid leaking sensitive data).
	IncludeRawRecordInErrors bool

	// InjectionOption selects write-side formula-injection handling.
	InjectionOption InjectionOption
	// InjectionCharacters is the leading-character set InjectionOption
	// reacts to. Defaults to DefaultInjectionCharacters.
	InjectionCharacters []byte
	// InjectionEscapeCharacter is prepended by InjectionEscape. Defaults to
	// '\''.
	InjectionEscapeCharacter byte

	// LeaveOpen controls whether Close on a Reader/Writer also closes the
	// underlying source/sink.
	LeaveOpen bool

	Hooks Hooks
}

// DefaultDialect returns an RFC 4180 dialect with comma delimiter, double
// quote, no trimming, and auto newline detection.
func DefaultDialect() Dialect {
	return Dialect{
		Delimiter:                ",",
		Quote:                    '"',
		Escape:                   '"',
		Mode:                     ModeRFC4180,
		Trim:                     TrimNone,
		WhitespaceChars:          []byte(" \t"),
		BufferSize:               4096,
		ProcessFieldBufferSize:   256,
		DetectDelimiterCandidates: []string{",", ";", "\t", "|"},
		InjectionCharacters:      append([]byte(nil), DefaultInjectionCharacters...),
		InjectionEscapeCharacter: '\'',
		Hooks:                    DefaultHooks(),
	}
}

// Validate checks the dialect for internal consistency, returning
// ErrInvalidConfig wrapped with detail on failure. Called by parser
// and writer constructors, and again after delimiter auto-detection.
func (d *Dialect) Validate() error {
	if len(d.Delimiter) == 0 {
		return configError("Delimiter must be non-empty")
	}
	if strings.IndexByte(d.Delimiter, d.Quote) >= 0 {
		return configError("Delimiter must not contain Quote")
	}
	if containsNewlineByte(d.Delimiter) {
		return configError("Delimiter must not contain a newline character")
	}
	if d.Comment != 0 && strings.IndexByte(d.Delimiter, d.Comment) >= 0 {
		return configError("Comment must not appear in Delimiter")
	}
	if d.AllowComments && d.Comment == 0 {
		return configError("AllowComments requires a non-zero Comment")
	}
	if d.BufferSize < 0 {
		return configError("BufferSize must be >= 0")
	}
	if d.MaxFieldSize < 0 {
		return configError("MaxFieldSize must be >= 0")
	}
	if d.Mode == ModeEscape && d.Escape == 0 {
		return configError("ModeEscape requires a non-zero Escape character")
	}
	if d.DetectDelimiter && len(d.DetectDelimiterCandidates) == 0 {
		return configError("DetectDelimiter requires at least one candidate")
	}
	return nil
}

func containsNewlineByte(s string) bool {
	return strings.IndexByte(s, '\r') >= 0 || strings.IndexByte(s, '\n') >= 0
}

// whitespace reports whether b is a member of d.WhitespaceChars.
func (d *Dialect) whitespace(b byte) bool {
	for _, w := range d.WhitespaceChars {
		if b == w {
			return true
		}
	}
	return false
}

// encodedLen returns the advisory encoded byte length of s.
func (d *Dialect) encodedLen(s string) int {
	if d.Encoding != nil {
		return d.Encoding(s)
	}
	return len(s)
}

func (d *Dialect) newlineAuto() bool { return d.Newline == "" }

func (d *Dialect) writeNewline() string {
	if d.Newline != "" {
		return d.Newline
	}
	return "\n"
}
