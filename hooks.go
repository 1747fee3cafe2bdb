package csvcore

// Context carries the location information available to a callback at the
// point it fires. During BadDataFound, the callback's field argument and
// RawRecord carry the offending data. Calls back into the Parser or Reader
// from within the callback are not detected or rejected; nothing returns
// ErrAccessOutsideRead.
type Context struct {
	Row       int64
	RawRow    int64
	Field     int
	RawRecord string
}

// Hooks is the table of callbacks spec §6 describes as the interface a
// higher-level record mapper consumes. Each field defaults to a
// conservative implementation (usually: fail) set by DefaultHooks; assign
// any subset before constructing a Parser/Reader/Writer to override.
type Hooks struct {
	// PrepareHeaderForMatch normalizes a header cell before it is used as a
	// named-index map key. Defaults to identity.
	PrepareHeaderForMatch func(name string, index int) string

	// ShouldSkipRecord lets the Reader transparently advance past a row
	// without surfacing it to the caller. Defaults to never skipping.
	ShouldSkipRecord func(row []string) bool

	// MissingFieldFound fires when a requested index is out of range or a
	// named field cannot be resolved via a direct (non try-get) call.
	// Defaults to a no-op; the caller still receives an error return.
	MissingFieldFound func(names []string, index int, ctx Context)

	// BadDataFound fires when a field violates RFC 4180 quoting rules.
	// Defaults to a no-op; the parser always recovers a best-effort value
	// and continues regardless of what this hook does.
	BadDataFound func(field, rawRecord string, ctx Context)

	// ReadingExceptionOccurred fires on a column-count mismatch. Returning
	// true rethrows; false swallows the error and the Reader continues with
	// the next row. Parser errors such as max-field-size are returned
	// directly without consulting this hook. Defaults to always rethrowing.
	ReadingExceptionOccurred func(err error) bool

	// HeaderValidated fires after ValidateHeader compares the captured
	// header against a named schema.
	HeaderValidated func(invalidHeaders []string, ctx Context)

	// GetDynamicPropertyName exposes a column name to a property-bag style
	// consumer. Defaults to the header name at columnIndex, or a
	// positional placeholder when there is no header.
	GetDynamicPropertyName func(columnIndex int, ctx Context) string

	// GetDelimiter is consulted by delimiter auto-detection instead of the
	// built-in heuristic, when set.
	GetDelimiter func(sampleText string, d Dialect) (string, error)

	// ShouldQuote decides whether a written field needs quoting; declared
	// type is the label passed to WriteTypedField (empty for WriteField).
	// Defaults to the RFC4180 predicate in writer.go.
	ShouldQuote func(field string, declaredType string, row []string) bool
}

// DefaultHooks returns the conservative default callback table: identity
// header normalization, no skipping, rethrow-on-error, and a nil
// ShouldQuote (the Writer falls back to its built-in predicate when nil).
func DefaultHooks() Hooks {
	return Hooks{
		PrepareHeaderForMatch:    func(name string, index int) string { return name },
		ShouldSkipRecord:         func(row []string) bool { return false },
		ReadingExceptionOccurred: func(err error) bool { return true },
	}
}

func (h Hooks) prepareHeader(name string, index int) string {
	if h.PrepareHeaderForMatch == nil {
		return name
	}
	return h.PrepareHeaderForMatch(name, index)
}

func (h Hooks) shouldSkip(row []string) bool {
	if h.ShouldSkipRecord == nil {
		return false
	}
	return h.ShouldSkipRecord(row)
}

func (h Hooks) badData(field, rawRecord string, ctx Context) {
	if h.BadDataFound != nil {
		h.BadDataFound(field, rawRecord, ctx)
	}
}

func (h Hooks) missingField(names []string, index int, ctx Context) {
	if h.MissingFieldFound != nil {
		h.MissingFieldFound(names, index, ctx)
	}
}

func (h Hooks) readingException(err error) bool {
	if h.ReadingExceptionOccurred == nil {
		return true
	}
	return h.ReadingExceptionOccurred(err)
}

func (h Hooks) headerValidated(invalid []string, ctx Context) {
	if h.HeaderValidated != nil {
		h.HeaderValidated(invalid, ctx)
	}
}
