package csvcore

import "context"

// This file is the suspending read/write driver spec §5 describes: the
// async variants share every bit of Parser/Writer state with the blocking
// path, differing only in where control can be handed back to the caller.
// ReadContext consults ctx once before each row is scanned (not at each
// buffer refill within a row), and WriteFieldContext consults it once
// before each field is written, so a cancelled context takes effect at the
// next row or field boundary.

// ReadContext behaves like Read, except it checks ctx for cancellation
// before each row is scanned. A cancelled context aborts with ctx.Err()
// instead of advancing.
func (p *Parser) ReadContext(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.ctxCheck = ctx
	defer func() { p.ctxCheck = nil }()
	return p.Read()
}

// ReadContext is the Reader-level counterpart to Parser.ReadContext.
func (rd *Reader) ReadContext(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rd.parser.ctxCheck = ctx
	defer func() { rd.parser.ctxCheck = nil }()
	return rd.Read()
}

// WriteFieldContext behaves like WriteField, checking ctx before the field
// is written.
func (w *Writer) WriteFieldContext(ctx context.Context, field string, shouldQuote *bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.WriteField(field, shouldQuote)
}
