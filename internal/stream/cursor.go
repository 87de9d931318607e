// Package stream provides a positional cursor over mangled symbol text.
package stream

import (
	"math"

	"fortio.org/safecast"

	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// Cursor scans mangled text one byte at a time.
// The underlying string is never modified; only the read position moves.
type Cursor struct {
	data   string
	offset int
}

// Checkpoint is a saved read position.
type Checkpoint int

// NewCursor creates a Cursor over s.
func NewCursor(s string) *Cursor {
	return &Cursor{data: s}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int {
	return c.offset
}

// SetOffset sets the read position.
func (c *Cursor) SetOffset(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return errs.At("cursor", offset, errs.ErrUnexpectedEnd)
	}
	c.offset = offset
	return nil
}

// Checkpoint saves the read position for a later Restore.
func (c *Cursor) Checkpoint() Checkpoint {
	return Checkpoint(c.offset)
}

// Restore rewinds to a saved position.
func (c *Cursor) Restore(cp Checkpoint) {
	c.offset = int(cp)
}

// Since returns the text consumed after cp.
func (c *Cursor) Since(cp Checkpoint) string {
	return c.data[int(cp):c.offset]
}

// AtEnd reports whether all input has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.offset >= len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.offset >= len(c.data) {
		return 0
	}
	return len(c.data) - c.offset
}

// Tail returns the unread text.
func (c *Cursor) Tail() string {
	if c.offset >= len(c.data) {
		return ""
	}
	return c.data[c.offset:]
}

// Peek returns the current byte, or 0 at end of input.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n int) byte {
	if c.offset+n >= len(c.data) {
		return 0
	}
	return c.data[c.offset+n]
}

// Next consumes and returns the current byte.
func (c *Cursor) Next() byte {
	if c.offset >= len(c.data) {
		return 0
	}
	b := c.data[c.offset]
	c.offset++
	return b
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) {
	c.offset = min(c.offset+n, len(c.data))
}

// Consume advances past b if it is the current byte.
func (c *Cursor) Consume(b byte) bool {
	if c.offset < len(c.data) && c.data[c.offset] == b {
		c.offset++
		return true
	}
	return false
}

// ConsumePrefix advances past s if the unread text starts with it.
func (c *Cursor) ConsumePrefix(s string) bool {
	if len(c.data)-c.offset >= len(s) && c.data[c.offset:c.offset+len(s)] == s {
		c.offset += len(s)
		return true
	}
	return false
}

// HasPrefix reports whether the unread text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.data)-c.offset >= len(s) && c.data[c.offset:c.offset+len(s)] == s
}

// Expect consumes b or fails on behalf of production.
func (c *Cursor) Expect(b byte, production string) error {
	if c.AtEnd() {
		return errs.Atf(production, c.offset, errs.ErrUnexpectedEnd, "want %q", b)
	}
	if c.data[c.offset] != b {
		return errs.Atf(production, c.offset, errs.ErrUnexpectedToken, "want %q, got %q", b, c.data[c.offset])
	}
	c.offset++
	return nil
}

// Take consumes exactly n bytes.
func (c *Cursor) Take(n int, production string) (string, error) {
	if n < 0 || n > len(c.data)-c.offset {
		return "", errs.Atf(production, c.offset, errs.ErrUnexpectedEnd, "need %d bytes, have %d", n, c.Remaining())
	}
	s := c.data[c.offset : c.offset+n]
	c.offset += n
	return s, nil
}

// Digits consumes a run of decimal digits, possibly empty.
func (c *Cursor) Digits() string {
	start := c.offset
	for c.offset < len(c.data) && isDigit(c.data[c.offset]) {
		c.offset++
	}
	return c.data[start:c.offset]
}

// Number consumes an optional 'n' negation marker followed by decimal digits.
func (c *Cursor) Number(production string) (value int, negative bool, err error) {
	start := c.offset
	negative = c.Consume('n')
	if c.AtEnd() {
		return 0, false, errs.At(production, c.offset, errs.ErrUnexpectedEnd)
	}
	if !isDigit(c.Peek()) {
		return 0, false, errs.Atf(production, c.offset, errs.ErrUnexpectedToken, "want digit, got %q", c.Peek())
	}

	var acc uint64
	for c.offset < len(c.data) && isDigit(c.data[c.offset]) {
		d := uint64(c.data[c.offset] - '0')
		if acc > (math.MaxUint64-d)/10 {
			return 0, false, errs.Atf(production, start, errs.ErrUnexpectedToken, "number overflows")
		}
		acc = acc*10 + d
		c.offset++
	}

	value, err = safecast.Convert[int](acc)
	if err != nil {
		return 0, false, errs.Atf(production, start, errs.ErrUnexpectedToken, "number overflows: %v", err)
	}
	return value, negative, nil
}

// SeqID consumes a base-36 sequence id (digits and upper-case letters).
func (c *Cursor) SeqID(production string) (int, error) {
	start := c.offset
	var acc int
	for c.offset < len(c.data) {
		b := c.data[c.offset]
		var d int
		switch {
		case isDigit(b):
			d = int(b - '0')
		case b >= 'A' && b <= 'Z':
			d = int(b-'A') + 10
		default:
			if c.offset == start {
				return 0, errs.Atf(production, c.offset, errs.ErrUnexpectedToken, "want seq-id, got %q", b)
			}
			return acc, nil
		}
		if acc > (math.MaxInt32-d)/36 {
			return 0, errs.Atf(production, start, errs.ErrBadBackReference, "seq-id overflows")
		}
		acc = acc*36 + d
		c.offset++
	}
	return 0, errs.At(production, c.offset, errs.ErrUnexpectedEnd)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
