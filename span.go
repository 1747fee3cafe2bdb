package csvcore

// fieldSpan is the raw, pre-decode extent of a field inside the current row
// window (spec §3). start/length are offsets relative to the buffer's
// current compaction point (the same frame as buffer.pos), valid only until
// the next row read.
type fieldSpan struct {
	start        int
	length       int
	quoteCount   int
	isBad        bool
	isProcessed  bool
	processed    string
	quoted       bool // the field was opened with a quote in RFC4180 mode
}

// reset clears a span for reuse on the next row, keeping the backing string
// header away from the GC for as short as possible.
func (s *fieldSpan) reset() {
	*s = fieldSpan{}
}

// rowSpans holds the current row's field spans. The parser owns exactly one
// of these; it is invalidated by the next call to Parser.Read.
type rowSpans struct {
	spans []fieldSpan
	raw   []byte // never set: RawRecord reads the row window from the buffer directly
}

func (r *rowSpans) reset() {
	r.spans = r.spans[:0]
}

func (r *rowSpans) add() *fieldSpan {
	r.spans = append(r.spans, fieldSpan{})
	return &r.spans[len(r.spans)-1]
}
