// Package lzari implements the LZARI compression used for the embedded files of
// GameShark firmware images: LZ77 style matching against a 4 KiB ring buffer
// combined with adaptive arithmetic coding of literals, match lengths and positions.
package lzari

import (
	"encoding/binary"
)

// HeaderSize is the size of the little endian uncompressed length header.
const HeaderSize = 4

type bitWriter struct {
	out    []byte
	buffer byte
	mask   byte
}

func (w *bitWriter) put(bit bool) {
	if bit {
		w.buffer |= w.mask
	}
	w.mask >>= 1
	if w.mask == 0 {
		w.out = append(w.out, w.buffer)
		w.buffer = 0
		w.mask = 0x80
	}
}

func (w *bitWriter) flush() {
	for range 7 {
		w.put(false)
	}
}

type encoder struct {
	bits   bitWriter
	model  *model
	low    uint32
	high   uint32
	shifts int
}

// output writes a bit followed by the pending opposite bits.
func (e *encoder) output(bit bool) {
	e.bits.put(bit)
	for ; e.shifts > 0; e.shifts-- {
		e.bits.put(!bit)
	}
}

// narrow sets the coding interval to the sub range [cumLow, cumHigh) of total
// and shifts out all settled bits.
func (e *encoder) narrow(cumHigh, cumLow, total uint32) {
	rng := e.high - e.low
	e.high = e.low + rng*cumHigh/total
	e.low += rng * cumLow / total

	for {
		switch {
		case e.high <= q2:
			e.output(false)
		case e.low >= q2:
			e.output(true)
			e.low -= q2
			e.high -= q2
		case e.low >= q1 && e.high <= q3:
			e.shifts++
			e.low -= q1
			e.high -= q1
		default:
			return
		}
		e.low += e.low
		e.high += e.high
	}
}

func (e *encoder) encodeChar(ch int) {
	m := e.model
	sym := m.charToSym[ch]
	e.narrow(m.symCum[sym-1], m.symCum[sym], m.symCum[0])
	m.update(sym)
}

func (e *encoder) encodePosition(position int) {
	m := e.model
	e.narrow(m.positionCum[position], m.positionCum[position+1], m.positionCum[0])
}

func (e *encoder) finish() {
	e.shifts++
	e.output(e.low >= q1)
	e.bits.flush()
}

// Encode compresses src. The result starts with the 4 byte little endian
// length of src, an empty src results in only this header.
func Encode(src []byte) []byte {
	header := make([]byte, HeaderSize, HeaderSize+len(src)/2)
	binary.LittleEndian.PutUint32(header, uint32(len(src)))
	if len(src) == 0 {
		return header
	}

	e := &encoder{
		bits:  bitWriter{out: header, mask: 0x80},
		model: newModel(),
		high:  q4,
	}
	t := newTree()

	s := 0
	r := ringSize - maxMatch
	for i := range r {
		t.text[i] = ' '
	}

	in := 0
	length := 0
	for ; length < maxMatch && in < len(src); length++ {
		t.text[r+length] = src[in]
		in++
	}

	for i := 1; i <= maxMatch; i++ {
		t.insert(r - i)
	}
	t.insert(r)

	for length > 0 {
		if t.matchLength > length {
			t.matchLength = length
		}
		if t.matchLength <= threshold {
			t.matchLength = 1
			e.encodeChar(int(t.text[r]))
		} else {
			e.encodeChar(255 - threshold + t.matchLength)
			e.encodePosition(t.matchPosition - 1)
		}

		lastMatchLength := t.matchLength
		i := 0
		for ; i < lastMatchLength && in < len(src); i++ {
			c := src[in]
			in++
			t.remove(s)
			t.text[s] = c
			if s < maxMatch-1 {
				t.text[s+ringSize] = c
			}
			s = (s + 1) & (ringSize - 1)
			r = (r + 1) & (ringSize - 1)
			t.insert(r)
		}
		for ; i < lastMatchLength; i++ {
			t.remove(s)
			s = (s + 1) & (ringSize - 1)
			r = (r + 1) & (ringSize - 1)
			length--
			if length > 0 {
				t.insert(r)
			}
		}
	}

	e.finish()
	return e.bits.out
}
