package csvcore

// parseState names the states of the per-row state machine (spec §4.1).
// The machine runs once per row and always leaves state at stateNone
// between rows; there is no terminal state.
type parseState int

const (
	// stateNone is the default, inside-field reading state of the main loop.
	stateNone parseState = iota
	// stateSpaces consumes leading whitespace of an RFC4180 field when
	// TrimOutside is set.
	stateSpaces
	// stateBlankLine consumes a line that is empty or starts with Comment,
	// when the respective option is enabled; no row is produced for it.
	stateBlankLine
	// stateDelimiter matches the continuation of a multi-character
	// delimiter.
	stateDelimiter
	// stateLineEnding resolves a bare \r that may be followed by \n, when
	// Newline is unset (auto).
	stateLineEnding
	// stateNewLine matches the continuation of a multi-character configured
	// Newline.
	stateNewLine
)

// counters tracks the position/row bookkeeping spec §3 calls out. row
// excludes skipped blank/comment lines; rawRow counts every physical line,
// including ones consumed inside quoted fields.
type counters struct {
	row             int64
	rawRow          int64
	charCount       int64
	byteCount       int64
	delimiterPos    int // unused: a partial delimiter match is re-probed by matchTokenAt after a refill
	newlinePos      int // unused: a partial newline match is re-probed by matchTokenAt after a refill
}
