package csvcore

import "io"

// buffer is the growable byte array the parser reads rows out of. It
// maintains the spec §3 invariant 0 <= rowStart <= fieldStart <= pos <=
// charsRead <= len(data) at every point observable between refills.
//
// On a new row, if rowStart > 0 the tail [rowStart, charsRead) is copied to
// offset 0 and every position is rebased; when a row does not fit even after
// compaction, the backing array doubles.
type buffer struct {
	src       io.Reader
	data      []byte
	rowStart  int
	fieldPos  int // fields_position: offset of the field currently being scanned
	pos       int // buffer_position: the parser's read cursor
	charsRead int
	eof       bool
}

func newBuffer(src io.Reader, size int) *buffer {
	if size <= 0 {
		size = 4096
	}
	return &buffer{src: src, data: make([]byte, size)}
}

// byteAt returns the byte at absolute offset i within the live window.
func (b *buffer) byteAt(i int) byte { return b.data[i] }

// available reports how many unread bytes remain between pos and charsRead.
func (b *buffer) available() int { return b.charsRead - b.pos }

// startRow resets per-row cursors to the current compaction point.
func (b *buffer) startRow() {
	b.rowStart = 0
	b.fieldPos = 0
	b.pos = 0
}

// window returns the raw bytes of the current row, from rowStart to pos.
func (b *buffer) window() []byte { return b.data[b.rowStart:b.pos] }

// compact copies the unread tail [rowStart, charsRead) to offset 0 and
// rebases fieldPos/pos relative to the new origin. It is a no-op when
// rowStart is already 0.
func (b *buffer) compact() {
	if b.rowStart == 0 {
		return
	}
	n := copy(b.data, b.data[b.rowStart:b.charsRead])
	b.fieldPos -= b.rowStart
	b.pos -= b.rowStart
	b.charsRead = n
	b.rowStart = 0
}

// grow doubles the backing array's capacity.
func (b *buffer) grow() {
	next := make([]byte, len(b.data)*2)
	copy(next, b.data[:b.charsRead])
	b.data = next
}

// refill compacts, grows if the buffer is already full, and reads more
// bytes from src. It reports false (with a nil error) at true EOF.
func (b *buffer) refill() (bool, error) {
	if b.eof {
		return false, nil
	}

	// The current row does not fit even at offset 0: grow before refilling.
	if b.rowStart == 0 && b.charsRead == len(b.data) {
		b.grow()
	} else {
		b.compact()
	}

	n, err := b.src.Read(b.data[b.charsRead:])
	if n > 0 {
		b.charsRead += n
	}
	if err != nil {
		if err == io.EOF {
			b.eof = true
		} else {
			return n > 0, err
		}
	}
	if n == 0 {
		b.eof = true
		return false, nil
	}
	return true, nil
}

// ensure guarantees at least one more byte is available at pos, refilling
// as needed. It reports false at EOF.
func (b *buffer) ensure() (bool, error) {
	for b.pos >= b.charsRead {
		ok, err := b.refill()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// locate returns the index of the first occurrence of c in data[from:limit],
// or -1.
func locate(data []byte, from, limit int, c byte) int {
	for i := from; i < limit; i++ {
		if data[i] == c {
			return i
		}
	}
	return -1
}

// containsAny reports whether any byte of data[from:limit] is in set.
func containsAny(data []byte, from, limit int, set []byte) bool {
	for i := from; i < limit; i++ {
		for _, c := range set {
			if data[i] == c {
				return true
			}
		}
	}
	return false
}

// trimRange shrinks [start, end) over the bytes in whitespace, from both
// ends, and returns the new bounds.
func trimRange(data []byte, start, end int, whitespace []byte) (int, int) {
	isWS := func(c byte) bool {
		for _, w := range whitespace {
			if c == w {
				return true
			}
		}
		return false
	}
	for start < end && isWS(data[start]) {
		start++
	}
	for end > start && isWS(data[end-1]) {
		end--
	}
	return start, end
}
