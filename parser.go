package csvcore

import (
	"context"
	"io"
)

// Parser is the hand-rolled state machine described in spec §4.1. It
// consumes bytes from an io.Reader, segments them into rows, and produces
// zero-copy field spans decoded on demand via Field. A Parser is not safe
// for concurrent use (spec §5).
type Parser struct {
	dialect Dialect
	buf     *buffer
	cache   *fieldCache
	procBuf *[]byte

	row   rowSpans
	state parseState

	counters counters

	fieldIsQuoted bool
	inQuotes      bool
	quoteCount    int
	delimFirst    byte

	started bool
	lastErr error
	closed  bool
	closer  io.Closer

	ctxCheck context.Context // set only for the duration of ReadContext (async.go)
}

// NewParser constructs a Parser reading from r under dialect d, validating
// d first. If r also implements io.Closer and d.LeaveOpen is false, Close
// closes it.
func NewParser(r io.Reader, d Dialect) (*Parser, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.WhitespaceChars == nil {
		d.WhitespaceChars = []byte(" \t")
	}
	p := &Parser{
		dialect: d,
		buf:     newBuffer(r, d.BufferSize),
		cache:   newFieldCache(d.CacheFields),
		procBuf: getProcessedBuffer(d.ProcessFieldBufferSize),
	}
	if c, ok := r.(io.Closer); ok && !d.LeaveOpen {
		p.closer = c
	}
	p.delimFirst = d.Delimiter[0]
	return p, nil
}

// Close releases the processed-field buffer back to its pool and, unless
// LeaveOpen was set, closes the underlying source.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	putProcessedBuffer(p.procBuf)
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Row returns the logical row number of the most recently read record
// (comment/blank lines excluded).
func (p *Parser) Row() int64 { return p.counters.row }

// RawRow returns the physical line number, counting lines consumed inside
// quoted fields.
func (p *Parser) RawRow() int64 { return p.counters.rawRow }

// ByteCount returns the advisory encoded byte count, tracked only when
// Dialect.CountBytes is set.
func (p *Parser) ByteCount() int64 { return p.counters.byteCount }

// Count returns the number of fields in the current row.
func (p *Parser) Count() int { return len(p.row.spans) }

// RawRecord returns the verbatim bytes of the current row window.
func (p *Parser) RawRecord() string { return string(p.buf.window()) }

// Err returns the error that stopped the parser, if any.
func (p *Parser) Err() error { return p.lastErr }

// Dialect returns the effective dialect, reflecting any change delimiter
// auto-detection made.
func (p *Parser) Dialect() Dialect { return p.dialect }

func (p *Parser) detectDelimiterOnce() error {
	// Sample the first fill without consuming it permanently: refill once,
	// inspect, then continue parsing from byte 0 as usual.
	if p.buf.charsRead == 0 {
		if _, err := p.buf.refill(); err != nil {
			return err
		}
	}
	sample := string(p.buf.data[:p.buf.charsRead])

	var chosen string
	var err error
	if p.dialect.Hooks.GetDelimiter != nil {
		chosen, err = p.dialect.Hooks.GetDelimiter(sample, p.dialect)
	} else {
		chosen, err = detectDelimiter(sample, &p.dialect)
	}
	if err != nil {
		return err
	}
	if chosen != "" && chosen != p.dialect.Delimiter {
		p.dialect.Delimiter = chosen
		if err := p.dialect.Validate(); err != nil {
			return err
		}
	}
	p.delimFirst = p.dialect.Delimiter[0]
	return nil
}

// Read advances to the next logical row. It reports false at end of input
// with a nil error, or false with a non-nil error on failure.
func (p *Parser) Read() (bool, error) {
	if p.lastErr != nil {
		return false, p.lastErr
	}
	if p.dialect.DetectDelimiter && !p.started {
		if err := p.detectDelimiterOnce(); err != nil {
			p.lastErr = err
			return false, err
		}
	}
	p.started = true

	for {
		if p.ctxCheck != nil {
			if err := p.ctxCheck.Err(); err != nil {
				return false, err
			}
		}
		ok, err := p.readRawRow()
		if err != nil {
			p.lastErr = err
			return false, err
		}
		if !ok {
			return false, nil
		}
		if p.state == stateBlankLine {
			continue
		}
		return true, nil
	}
}

// readRawRow implements one pass of the per-row core loop (spec §4.1). It
// returns false, nil at clean EOF.
func (p *Parser) readRawRow() (bool, error) {
	p.row.reset()
	p.quoteCount = 0
	p.inQuotes = false
	p.fieldIsQuoted = false
	p.state = stateNone

	// Compact at the row boundary so rowStart stays 0 for the whole row: a
	// refill mid-row then only appends or grows, and fieldStart and the
	// emitted span offsets never need rebasing.
	p.buf.rowStart = p.buf.pos
	p.buf.compact()
	if ok, err := p.buf.ensure(); err != nil {
		return false, err
	} else if !ok {
		return false, nil
	}
	p.buf.rowStart = p.buf.pos
	p.counters.rawRow++

	// Comment / blank-line skip, only meaningful at the very first byte of
	// the row.
	if skip, err := p.maybeSkipLine(); err != nil {
		return false, err
	} else if skip {
		p.state = stateBlankLine
		return true, nil
	}
	p.state = stateNone

	fieldStart := p.buf.pos
	for {
		ok, err := p.buf.ensure()
		if err != nil {
			return false, err
		}
		if !ok {
			return p.finalizeAtEOF(fieldStart)
		}

		switch p.dialect.Mode {
		case ModeNoEscape:
			done, produced, nextStart, err := p.stepNoEscape(fieldStart)
			if err != nil {
				return false, err
			}
			if produced {
				return true, nil
			}
			fieldStart = nextStart
			if done {
				continue
			}
		case ModeEscape:
			done, produced, nextStart, err := p.stepEscape(fieldStart)
			if err != nil {
				return false, err
			}
			if produced {
				return true, nil
			}
			fieldStart = nextStart
			if done {
				continue
			}
		default: // ModeRFC4180
			done, produced, nextStart, err := p.stepRFC4180(fieldStart)
			if err != nil {
				return false, err
			}
			if produced {
				return true, nil
			}
			fieldStart = nextStart
			if done {
				continue
			}
		}
	}
}

// maybeSkipLine consumes a comment or blank line at the start of a row.
// Reports true when a line was skipped (no row produced).
func (p *Parser) maybeSkipLine() (bool, error) {
	c := p.buf.data[p.buf.pos]

	if p.dialect.AllowComments && c == p.dialect.Comment {
		return true, p.skipToEndOfLine()
	}
	if p.dialect.IgnoreBlankLines {
		if matched, err := p.tryMatchNewlineAt(p.buf.pos); err != nil {
			return false, err
		} else if matched {
			return true, nil
		}
	}
	return false, nil
}

// skipToEndOfLine advances past the remainder of the current physical
// line, including its terminator, without producing a field or row.
func (p *Parser) skipToEndOfLine() error {
	for {
		ok, err := p.buf.ensure()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if matched, err := p.tryMatchNewlineAt(p.buf.pos); err != nil {
			return err
		} else if matched {
			return nil
		}
		p.buf.pos++
		p.counters.charCount++
	}
}

// tryMatchNewlineAt attempts to match the configured (or auto) newline
// starting at idx. On success it advances buf.pos past the match, consuming
// \r\n, \r, or \n as a single newline (spec §9 open question 2). It does not
// touch rawRow; callers count the physical line.
func (p *Parser) tryMatchNewlineAt(idx int) (bool, error) {
	if !p.dialect.newlineAuto() {
		ok, err := p.matchTokenAt(idx, p.dialect.Newline)
		return ok, err
	}
	ok, err := p.ensureAt(idx)
	if err != nil || !ok {
		return false, err
	}
	c := p.buf.data[idx]
	if c == '\n' {
		p.buf.pos = idx + 1
		return true, nil
	}
	if c == '\r' {
		ok2, err := p.ensureAt(idx + 1)
		if err != nil {
			return false, err
		}
		if ok2 && p.buf.data[idx+1] == '\n' {
			p.buf.pos = idx + 2
			return true, nil
		}
		p.buf.pos = idx + 1
		return true, nil
	}
	return false, nil
}

func (p *Parser) ensureAt(idx int) (bool, error) {
	for idx >= p.buf.charsRead {
		ok, err := p.buf.refill()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchTokenAt reports whether token occurs at idx, advancing buf.pos past
// it on success. It never consumes on a non-match.
func (p *Parser) matchTokenAt(idx int, token string) (bool, error) {
	for i := 0; i < len(token); i++ {
		ok, err := p.ensureAt(idx + i)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if p.buf.data[idx+i] != token[i] {
			return false, nil
		}
	}
	p.buf.pos = idx + len(token)
	return true, nil
}

// emitField appends a field span covering [start, end) of the buffer and
// resets per-field state.
func (p *Parser) emitField(start, end int, quoted bool, quoteCount int) {
	span := p.row.add()
	span.start = start
	span.length = end - start
	span.quoted = quoted
	span.quoteCount = quoteCount
	p.quoteCount = 0
	p.fieldIsQuoted = false
}

// finishRow increments the logical row counter. Called once a row's final
// field has been emitted.
func (p *Parser) finishRow() {
	p.counters.row++
}

func (p *Parser) enforceMaxField(size int) error {
	if p.dialect.MaxFieldSize > 0 && size > p.dialect.MaxFieldSize {
		return newParseError(KindMaxFieldSize, p.counters.row, p.counters.rawRow, len(p.row.spans), p.rawRecordFor(), p.dialect.IncludeRawRecordInErrors, nil)
	}
	return nil
}
