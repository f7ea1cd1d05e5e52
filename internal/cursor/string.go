package cursor

// Filter selects which bytes a string read accepts.
type Filter int

const (
	// Printable stops a string at the first control character.
	Printable Filter = iota
	// AnyByte accepts every byte except the NUL terminator.
	AnyByte
)

func (f Filter) accepts(b byte) bool {
	if f == AnyByte {
		return true
	}
	return b >= 0x20 && b != 0x7F
}

// TaggedString is decoded text together with the byte range it was read from.
type TaggedString struct {
	Value string // decoded text, bytes above 0x7F as \xNN tokens
	Start uint32 // offset of the first byte
	End   uint32 // offset after the last consumed byte, including a terminator
	Raw   []byte // text bytes without terminator or padding
}

// Len returns the number of bytes the string occupies in the buffer.
func (s TaggedString) Len() int {
	return int(s.End - s.Start)
}

// ReadCString reads a C style string of at most maxLen bytes.
//
// For null terminated strings the terminator counts towards maxLen and is consumed.
// A printable filter ends the string without consuming the offending byte.
// For fixed size fields (nullTerminated false) exactly maxLen bytes are consumed
// and the text ends at the first NUL or filtered byte.
func (c *Cursor) ReadCString(maxLen int, nullTerminated bool, filter Filter) (TaggedString, error) {
	start := c.pos
	if !nullTerminated {
		field, err := c.ReadBytes(maxLen)
		if err != nil {
			return TaggedString{}, err
		}
		n := 0
		for n < len(field) && field[n] != 0 && filter.accepts(field[n]) {
			n++
		}
		return TaggedString{
			Value: DecodeString(field[:n]),
			Start: start,
			End:   c.pos,
			Raw:   field[:n],
		}, nil
	}

	var raw []byte
	for i := 0; i < maxLen; i++ {
		b, err := c.PeekU8()
		if err != nil {
			return TaggedString{}, err
		}
		if b == 0 {
			c.pos++
			break
		}
		if !filter.accepts(b) {
			break
		}
		raw = append(raw, b)
		c.pos++
	}

	return TaggedString{
		Value: DecodeString(raw),
		Start: start,
		End:   c.pos,
		Raw:   raw,
	}, nil
}

// WriteCString writes raw string bytes followed by a NUL terminator.
func (c *Cursor) WriteCString(raw []byte) error {
	if err := c.check(len(raw) + 1); err != nil {
		return err
	}
	copy(c.buf[c.pos:], raw)
	c.buf[int(c.pos)+len(raw)] = 0
	c.pos += uint32(len(raw) + 1)
	return nil
}

// WriteFixedString writes raw string bytes padded with NUL bytes to size.
func (c *Cursor) WriteFixedString(raw []byte, size int) error {
	if len(raw) > size {
		return &BoundsError{Offset: c.pos, Length: len(raw), Size: size}
	}
	if err := c.check(size); err != nil {
		return err
	}
	copy(c.buf[c.pos:], raw)
	for i := len(raw); i < size; i++ {
		c.buf[int(c.pos)+i] = 0
	}
	c.pos += uint32(size)
	return nil
}
