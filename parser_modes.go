package csvcore

// This file holds the per-Mode field-scanning steps the core loop in
// parser.go dispatches to. Each step looks at exactly one logical position
// and reports:
//
//	done      - the field boundary logic consumed something and the caller
//	            should loop again with the returned fieldStart
//	produced  - a full row was emitted; Read should return
//	fieldStart - the (possibly unchanged) start offset of the field now
//	            being scanned
//
// None of them advance buf.pos without a corresponding byte actually having
// been consumed; EOF is handled by finalizeAtEOF in parser.go.

// stepRFC4180 advances the scan by one structural decision under
// ModeRFC4180, honoring quoting, doubled/escaped quotes, embedded
// newlines, and delimiter/newline matching.
func (p *Parser) stepRFC4180(fieldStart int) (done, produced bool, nextStart int, err error) {
	d := &p.dialect

	// Field-open detection: only at the very first byte of a field.
	if p.buf.pos == fieldStart && !p.inQuotes && p.quoteCount == 0 {
		if d.Trim.Has(TrimOutside) {
			for {
				ok, e := p.buf.ensure()
				if e != nil {
					return false, false, fieldStart, e
				}
				if !ok {
					break
				}
				if !d.whitespace(p.buf.data[p.buf.pos]) {
					break
				}
				p.buf.pos++
			}
			fieldStart = p.buf.pos
			ok, e := p.buf.ensure()
			if e != nil {
				return false, false, fieldStart, e
			}
			if !ok {
				return false, false, fieldStart, nil
			}
		}
		if p.buf.data[p.buf.pos] == d.Quote {
			p.fieldIsQuoted = true
			p.inQuotes = true
			p.quoteCount++
			p.buf.pos++
			return true, false, fieldStart, nil
		}
	}

	c := p.buf.data[p.buf.pos]

	if p.inQuotes {
		isEscapeByte := c == d.Escape
		nextIsQuote := false
		if isEscapeByte {
			ok, e := p.ensureAt(p.buf.pos + 1)
			if e != nil {
				return false, false, fieldStart, e
			}
			nextIsQuote = ok && p.buf.data[p.buf.pos+1] == d.Quote
		}
		switch {
		case isEscapeByte && nextIsQuote:
			p.quoteCount += 2
			p.buf.pos += 2
			return true, false, fieldStart, nil
		case c == d.Quote:
			p.quoteCount++
			p.buf.pos++
			p.inQuotes = false
			return true, false, fieldStart, nil
		case isEscapeByte:
			p.quoteCount++
			p.buf.pos++
			return true, false, fieldStart, nil
		}
		if c == '\r' || c == '\n' {
			prevPos := p.buf.pos
			matched, e := p.tryMatchNewlineAt(p.buf.pos)
			if e != nil {
				return false, false, fieldStart, e
			}
			if matched {
				p.counters.rawRow++
				if d.LineBreakInQuotedFieldIsBadData {
					span := p.row.add()
					span.start = fieldStart
					span.length = prevPos - fieldStart
					span.quoteCount = p.quoteCount
					span.quoted = p.fieldIsQuoted
					span.isBad = true
					p.finishRow()
					p.quoteCount = 0
					p.fieldIsQuoted = false
					return false, true, fieldStart, nil
				}
				// Newline inside quotes is ordinary content: keep scanning.
				return true, false, fieldStart, nil
			}
			p.buf.pos++
			return true, false, fieldStart, nil
		}
		p.buf.pos++
		return true, false, fieldStart, nil
	}

	// Not in quotes: check delimiter, then newline, then ordinary content.
	if c == d.Delimiter[0] {
		if matched, e := p.matchTokenAt(p.buf.pos, d.Delimiter); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := p.buf.pos - len(d.Delimiter)
			if d.Trim.Has(TrimOutside) {
				// trimRange only erodes from the right while it sees
				// whitespace; for a quoted field it stops the instant it
				// hits the closing quote, so this only ever eats trailing
				// whitespace between that quote and the delimiter, never
				// quoted content.
				_, end = trimRange(p.buf.data, fieldStart, end, d.WhitespaceChars)
			}
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, p.fieldIsQuoted, p.quoteCount)
			return false, false, p.buf.pos, nil
		}
	}
	if c == '\r' || c == '\n' {
		prevPos := p.buf.pos
		if matched, e := p.tryMatchNewlineAt(p.buf.pos); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := prevPos
			if d.Trim.Has(TrimOutside) {
				_, end = trimRange(p.buf.data, fieldStart, end, d.WhitespaceChars)
			}
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, p.fieldIsQuoted, p.quoteCount)
			p.finishRow()
			return false, true, fieldStart, nil
		}
	}
	if c == d.Quote {
		p.quoteCount++
	}
	p.buf.pos++
	return true, false, fieldStart, nil
}

// stepEscape advances the scan under ModeEscape: no quoting, Escape makes
// the following byte literal.
func (p *Parser) stepEscape(fieldStart int) (done, produced bool, nextStart int, err error) {
	d := &p.dialect
	c := p.buf.data[p.buf.pos]

	if c == d.Escape {
		ok, e := p.ensureAt(p.buf.pos + 1)
		if e != nil {
			return false, false, fieldStart, e
		}
		if ok {
			p.buf.pos += 2
			return true, false, fieldStart, nil
		}
		p.buf.pos++
		return true, false, fieldStart, nil
	}
	if c == d.Delimiter[0] {
		if matched, e := p.matchTokenAt(p.buf.pos, d.Delimiter); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := p.buf.pos - len(d.Delimiter)
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, false, 0)
			return false, false, p.buf.pos, nil
		}
	}
	if c == '\r' || c == '\n' {
		prevPos := p.buf.pos
		if matched, e := p.tryMatchNewlineAt(p.buf.pos); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := prevPos
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, false, 0)
			p.finishRow()
			return false, true, fieldStart, nil
		}
	}
	p.buf.pos++
	return true, false, fieldStart, nil
}

// stepNoEscape advances the scan under ModeNoEscape: delimiter/newline
// splitting only, every byte in between is verbatim content.
func (p *Parser) stepNoEscape(fieldStart int) (done, produced bool, nextStart int, err error) {
	d := &p.dialect
	c := p.buf.data[p.buf.pos]

	if c == d.Delimiter[0] {
		if matched, e := p.matchTokenAt(p.buf.pos, d.Delimiter); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := p.buf.pos - len(d.Delimiter)
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, false, 0)
			return false, false, p.buf.pos, nil
		}
	}
	if c == '\r' || c == '\n' {
		prevPos := p.buf.pos
		if matched, e := p.tryMatchNewlineAt(p.buf.pos); e != nil {
			return false, false, fieldStart, e
		} else if matched {
			end := prevPos
			if e := p.enforceMaxField(end-fieldStart); e != nil {
				return false, false, fieldStart, e
			}
			p.emitField(fieldStart, end, false, 0)
			p.finishRow()
			return false, true, fieldStart, nil
		}
	}
	p.buf.pos++
	return true, false, fieldStart, nil
}

// finalizeAtEOF closes out the row in progress when the source is
// exhausted mid-field. It emits the pending partial field (if any) as the
// row's final field and reports true, or reports clean end-of-input when
// nothing was pending.
func (p *Parser) finalizeAtEOF(fieldStart int) (bool, error) {
	if fieldStart >= p.buf.pos && len(p.row.spans) == 0 {
		return false, nil
	}
	end := p.buf.pos
	if p.dialect.Trim.Has(TrimOutside) {
		_, end = trimRange(p.buf.data, fieldStart, end, p.dialect.WhitespaceChars)
	}
	if err := p.enforceMaxField(end-fieldStart); err != nil {
		return false, err
	}
	p.emitField(fieldStart, end, p.fieldIsQuoted, p.quoteCount)
	p.finishRow()
	return true, nil
}
