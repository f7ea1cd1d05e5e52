// Package cursor implements a bounds checked read/write cursor over a mutable byte buffer.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrOutOfBounds is wrapped by every BoundsError.
var ErrOutOfBounds = errors.New("out of bounds")

// BoundsError describes an access at or beyond the end of the buffer.
type BoundsError struct {
	Offset uint32 // position of the attempted access
	Length int    // number of bytes requested
	Size   int    // size of the buffer
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("access of %d bytes at offset 0x%05X exceeds buffer size 0x%05X",
		e.Length, e.Offset, e.Size)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Cursor reads and writes integers and strings at a movable position of a buffer.
// A cursor is not safe for concurrent use and a buffer should only be driven by
// one cursor at a time.
type Cursor struct {
	buf   []byte
	pos   uint32
	order binary.ByteOrder
}

// NewBE returns a big endian cursor positioned at the start of the buffer.
func NewBE(buf []byte) *Cursor {
	return &Cursor{buf: buf, order: binary.BigEndian}
}

// NewLE returns a little endian cursor positioned at the start of the buffer.
func NewLE(buf []byte) *Cursor {
	return &Cursor{buf: buf, order: binary.LittleEndian}
}

// Buffer returns the underlying buffer.
func (c *Cursor) Buffer() []byte {
	return c.buf
}

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Pos returns the current position.
func (c *Cursor) Pos() uint32 {
	return c.pos
}

// Remaining returns the number of bytes between the position and the end of the buffer.
func (c *Cursor) Remaining() int {
	return len(c.buf) - int(c.pos)
}

// Seek sets the position. Seeking to exactly the buffer length is allowed and
// marks the end of the buffer.
func (c *Cursor) Seek(pos uint32) error {
	if int64(pos) > int64(len(c.buf)) {
		return &BoundsError{Offset: pos, Length: 0, Size: len(c.buf)}
	}
	c.pos = pos
	return nil
}

// Skip moves the position by n bytes, n can be negative.
func (c *Cursor) Skip(n int) error {
	target := int64(c.pos) + int64(n)
	if target < 0 || target > int64(len(c.buf)) {
		return &BoundsError{Offset: c.pos, Length: n, Size: len(c.buf)}
	}
	c.pos = uint32(target)
	return nil
}

func (c *Cursor) check(n int) error {
	if n < 0 || int64(c.pos)+int64(n) > int64(len(c.buf)) {
		return &BoundsError{Offset: c.pos, Length: n, Size: len(c.buf)}
	}
	return nil
}

// Peek returns the next n bytes without moving the position. The returned slice
// aliases the buffer.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	return c.buf[c.pos : int(c.pos)+n], nil
}

// ReadBytes returns a copy of the next n bytes and advances the position.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	c.pos += uint32(n)
	return out, nil
}

// WriteBytes copies b to the position and advances it.
func (c *Cursor) WriteBytes(b []byte) error {
	if err := c.check(len(b)); err != nil {
		return err
	}
	copy(c.buf[c.pos:], b)
	c.pos += uint32(len(b))
	return nil
}

// Fill writes n copies of value.
func (c *Cursor) Fill(value byte, n int) error {
	if err := c.check(n); err != nil {
		return err
	}
	for i := range n {
		c.buf[int(c.pos)+i] = value
	}
	c.pos += uint32(n)
	return nil
}

// PeekU8 returns the byte at the position without advancing.
func (c *Cursor) PeekU8() (uint8, error) {
	if err := c.check(1); err != nil {
		return 0, err
	}
	return c.buf[c.pos], nil
}

// ReadU8 reads a byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.PeekU8()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// ReadU16 reads a 16 bit integer in the byte order of the cursor.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.check(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// PeekU32 returns the 32 bit integer at the position without advancing.
func (c *Cursor) PeekU32() (uint32, error) {
	if err := c.check(4); err != nil {
		return 0, err
	}
	return c.order.Uint32(c.buf[c.pos:]), nil
}

// ReadU32 reads a 32 bit integer in the byte order of the cursor.
func (c *Cursor) ReadU32() (uint32, error) {
	v, err := c.PeekU32()
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// WriteU8 writes a byte.
func (c *Cursor) WriteU8(v uint8) error {
	return writeUint(c, v, 1)
}

// WriteU16 writes a 16 bit integer in the byte order of the cursor.
func (c *Cursor) WriteU16(v uint16) error {
	return writeUint(c, v, 2)
}

// WriteU32 writes a 32 bit integer in the byte order of the cursor.
func (c *Cursor) WriteU32(v uint32) error {
	return writeUint(c, v, 4)
}

func writeUint[T constraints.Unsigned](c *Cursor, v T, size int) error {
	if err := c.check(size); err != nil {
		return err
	}
	b := c.buf[c.pos : int(c.pos)+size]
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		c.order.PutUint16(b, uint16(v))
	case 4:
		c.order.PutUint32(b, uint32(v))
	default:
		panic(fmt.Sprintf("unsupported integer size %d", size))
	}
	c.pos += uint32(size)
	return nil
}
