package csvcore

// This file is the field post-processor (spec §4.2): it turns a raw,
// still-quoted field span into its decoded value, on first access, and
// caches the result on the span so repeat calls to Field are free.

// Field returns the decoded value of column i in the current row, invoking
// BadDataFound and MissingFieldFound where applicable.
func (p *Parser) Field(i int) (string, error) {
	if i < 0 || i >= len(p.row.spans) {
		p.dialect.Hooks.missingField(nil, i, p.ctx(i))
		return "", newParseError(KindMissingField, p.counters.row, p.counters.rawRow, i, p.rawRecordFor(), p.dialect.IncludeRawRecordInErrors, ErrMissingField)
	}
	span := &p.row.spans[i]
	if span.isProcessed {
		return span.processed, nil
	}

	raw := p.buf.data[span.start : span.start+span.length]
	var value string
	var bad bool

	switch p.dialect.Mode {
	case ModeNoEscape:
		value = string(raw)
	case ModeEscape:
		value = decodeEscapeField(raw, &p.dialect, p.procBuf)
	default:
		if span.isBad {
			value = decodeBadField(raw, &p.dialect, p.procBuf)
			bad = true
		} else if span.quoteCount == 0 {
			value = string(raw)
		} else if n := len(raw); n >= 2 && raw[0] == p.dialect.Quote && raw[n-1] == p.dialect.Quote {
			value = unescapeQuoted(raw[1:n-1], &p.dialect, p.procBuf)
			if p.dialect.Trim.Has(TrimInsideQuotes) {
				s, e := trimRange([]byte(value), 0, len(value), p.dialect.WhitespaceChars)
				value = value[s:e]
			}
		} else {
			value = decodeBadField(raw, &p.dialect, p.procBuf)
			bad = true
		}
	}

	if bad {
		span.isBad = true
		// spec: bad_data_found sees the raw, still-quoted field text, not
		// the salvaged/decoded value.
		p.dialect.Hooks.badData(string(raw), p.rawRecordFor(), p.ctx(i))
	}

	if p.dialect.CountBytes {
		p.counters.byteCount += int64(p.dialect.encodedLen(value))
	}

	value = p.cache.intern(value)
	span.processed = value
	span.isProcessed = true
	return value, nil
}

// TryField is the non-throwing counterpart to Field: it reports ok=false
// instead of returning an error for a missing column.
func (p *Parser) TryField(i int) (value string, ok bool) {
	if i < 0 || i >= len(p.row.spans) {
		return "", false
	}
	v, err := p.Field(i)
	if err != nil {
		return "", false
	}
	return v, true
}

// IsFieldBad reports whether column i was recovered from malformed input.
// Accessing it forces decoding of the field if it has not happened yet.
func (p *Parser) IsFieldBad(i int) bool {
	if i < 0 || i >= len(p.row.spans) {
		return false
	}
	if !p.row.spans[i].isProcessed {
		_, _ = p.Field(i)
	}
	return p.row.spans[i].isBad
}

func (p *Parser) ctx(field int) Context {
	return Context{Row: p.counters.row, RawRow: p.counters.rawRow, Field: field, RawRecord: p.rawRecordFor()}
}

func (p *Parser) rawRecordFor() string {
	if !p.dialect.IncludeRawRecordInErrors {
		return ""
	}
	return p.RawRecord()
}

// scratchFor borrows the processed-field buffer as growable working space
// for a decode that needs to build a shorter-than-raw result in place,
// doubling it to fit cap when the existing capacity falls short (spec §3's
// "processed-field buffer", grown by doubling).
func scratchFor(procBuf *[]byte, capNeeded int) []byte {
	if procBuf == nil {
		return make([]byte, 0, capNeeded)
	}
	if cap(*procBuf) < capNeeded {
		grown := cap(*procBuf) * 2
		for grown < capNeeded {
			grown *= 2
		}
		*procBuf = make([]byte, 0, grown)
	}
	return (*procBuf)[:0]
}

// unescapeQuoted collapses escaped quote pairs (doubled, or escape+quote
// when Escape differs from Quote) inside the body of a well-formed quoted
// field. The result is always copied out as an owned string before
// procBuf's backing array can be reused by the next field (spec §9's
// design note: decoded values never alias the parser's internal buffers).
func unescapeQuoted(inner []byte, d *Dialect, procBuf *[]byte) string {
	if !containsAny(inner, 0, len(inner), []byte{d.Quote, d.Escape}) {
		return string(inner)
	}
	out := scratchFor(procBuf, len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if (c == d.Escape || c == d.Quote) && i+1 < len(inner) && inner[i+1] == d.Quote {
			out = append(out, d.Quote)
			i++
			continue
		}
		out = append(out, c)
	}
	if procBuf != nil {
		*procBuf = out
	}
	return string(out)
}

// decodeBadField recovers a best-effort value from a malformed quoted
// field: a leading quote character is stripped and the remainder unescaped;
// anything else is returned verbatim, quotes and all, as spec §4.2's
// escalation rule describes.
func decodeBadField(raw []byte, d *Dialect, procBuf *[]byte) string {
	if len(raw) > 0 && raw[0] == d.Quote {
		return unescapeQuoted(raw[1:], d, procBuf)
	}
	return string(raw)
}

// decodeEscapeField resolves a Mode Escape field: Escape makes the
// following byte literal and is otherwise dropped from the output.
func decodeEscapeField(raw []byte, d *Dialect, procBuf *[]byte) string {
	if !containsAny(raw, 0, len(raw), []byte{d.Escape}) {
		return string(raw)
	}
	out := scratchFor(procBuf, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == d.Escape && i+1 < len(raw) {
			out = append(out, raw[i+1])
			i++
			continue
		}
		out = append(out, raw[i])
	}
	if procBuf != nil {
		*procBuf = out
	}
	return string(out)
}
