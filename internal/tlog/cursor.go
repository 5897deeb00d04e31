package tlog

import (
	"encoding/binary"
	"math"
	"strings"
)

// Cursor is a sequential reader over an in-memory byte buffer. It owns the
// single mutable read position for one decode pass; all primitive reads
// advance it by exactly the number of bytes consumed. The position never
// moves backward and never passes the end of the buffer.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf. The cursor
// borrows buf and never mutates it.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// need checks that n more bytes are available before a read or skip.
func (c *Cursor) need(n int) error {
	if c.pos+n > len(c.buf) {
		return decodeErrorf(ErrTruncatedInput, c.pos,
			"need %d bytes, %d remain", n, len(c.buf)-c.pos)
	}
	return nil
}

// ReadString reads n raw bytes as fixed-width text, strips trailing NUL
// padding, and advances by n.
func (c *Cursor) ReadString(n int) (string, error) {
	if err := c.need(n); err != nil {
		return "", err
	}
	s := string(c.buf[c.pos : c.pos+n])
	c.pos += n
	return strings.TrimRight(s, "\x00"), nil
}

// ReadInt32 reads one little-endian 4-byte signed integer.
func (c *Cursor) ReadInt32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(c.buf[c.pos:]))
	c.pos += 4
	return v, nil
}

// ReadInt32s reads count little-endian 4-byte signed integers. A negative
// count means the header declared an impossible layout.
func (c *Cursor) ReadInt32s(count int) ([]int32, error) {
	if count < 0 {
		return nil, decodeErrorf(ErrInvalidLayout, c.pos, "negative count of %d values", count)
	}
	if err := c.need(4 * count); err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(c.buf[c.pos+4*i:]))
	}
	c.pos += 4 * count
	return out, nil
}

// ReadFloat32s reads count little-endian IEEE-754 4-byte floats. A negative
// count means the header declared an impossible layout.
func (c *Cursor) ReadFloat32s(count int) ([]float32, error) {
	if count < 0 {
		return nil, decodeErrorf(ErrInvalidLayout, c.pos, "negative count of %d values", count)
	}
	if err := c.need(4 * count); err != nil {
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(c.buf[c.pos+4*i:]))
	}
	c.pos += 4 * count
	return out, nil
}

// Skip advances the position by n bytes without reading. Reserved regions
// and the sub-beam table are skipped this way. A negative n means the
// header declared an impossible layout.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return decodeErrorf(ErrInvalidLayout, c.pos, "negative skip of %d bytes", n)
	}
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}
