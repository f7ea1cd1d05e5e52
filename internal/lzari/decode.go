package lzari

import (
	"fmt"

	"github.com/retroenv/retrocheat/internal/cursor"
)

// maxDecodedSize limits the length header to protect against corrupted input.
const maxDecodedSize = 16 << 20

type bitReader struct {
	in     []byte
	pos    int
	buffer byte
	mask   byte
}

// get returns the next bit, bits past the end of the input read as 0.
func (r *bitReader) get() uint32 {
	r.mask >>= 1
	if r.mask == 0 {
		r.buffer = 0
		if r.pos < len(r.in) {
			r.buffer = r.in[r.pos]
		}
		r.pos++
		r.mask = 0x80
	}
	if r.buffer&r.mask != 0 {
		return 1
	}
	return 0
}

type decoder struct {
	bits  bitReader
	model *model
	low   uint32
	high  uint32
	value uint32
}

func (d *decoder) start() {
	for range precision + 2 {
		d.value = 2*d.value + d.bits.get()
	}
}

// narrow mirrors encoder.narrow and reads the bits the encoder shifted out.
func (d *decoder) narrow(cumHigh, cumLow, total uint32) {
	rng := d.high - d.low
	d.high = d.low + rng*cumHigh/total
	d.low += rng * cumLow / total

	for {
		switch {
		case d.low >= q2:
			d.value -= q2
			d.low -= q2
			d.high -= q2
		case d.low >= q1 && d.high <= q3:
			d.value -= q1
			d.low -= q1
			d.high -= q1
		case d.high > q2:
			return
		}
		d.low += d.low
		d.high += d.high
		d.value = 2*d.value + d.bits.get()
	}
}

func (d *decoder) target(total uint32) uint32 {
	rng := d.high - d.low
	return ((d.value-d.low+1)*total - 1) / rng
}

func (d *decoder) decodeChar() int {
	m := d.model
	sym := m.searchSymbol(d.target(m.symCum[0]))
	d.narrow(m.symCum[sym-1], m.symCum[sym], m.symCum[0])
	ch := m.symToChar[sym]
	m.update(sym)
	return ch
}

func (d *decoder) decodePosition() int {
	m := d.model
	position := m.searchPosition(d.target(m.positionCum[0]))
	d.narrow(m.positionCum[position], m.positionCum[position+1], m.positionCum[0])
	return position
}

// Decode decompresses data created by Encode.
func Decode(src []byte) ([]byte, error) {
	c := cursor.NewLE(src)
	size, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("reading length header: %w", err)
	}
	if size == 0 {
		return []byte{}, nil
	}
	if size > maxDecodedSize {
		return nil, fmt.Errorf("decoded size 0x%X exceeds limit 0x%X", size, maxDecodedSize)
	}

	d := &decoder{
		bits:  bitReader{in: src[HeaderSize:]},
		model: newModel(),
		high:  q4,
	}
	d.start()

	var text [ringSize]byte
	for i := range ringSize - maxMatch {
		text[i] = ' '
	}
	r := ringSize - maxMatch

	out := make([]byte, 0, size)
	for uint32(len(out)) < size {
		ch := d.decodeChar()
		if ch < 256 {
			out = append(out, byte(ch))
			text[r] = byte(ch)
			r = (r + 1) & (ringSize - 1)
			continue
		}

		i := (r - d.decodePosition() - 1) & (ringSize - 1)
		length := ch - 255 + threshold
		for k := range length {
			b := text[(i+k)&(ringSize-1)]
			out = append(out, b)
			text[r] = b
			r = (r + 1) & (ringSize - 1)
		}
	}

	return out[:size], nil
}
