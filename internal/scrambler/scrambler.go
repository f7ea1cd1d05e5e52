// Package scrambler converts Xplorer64 ROM images between the address scrambled
// layout of the two parallel EEPROM chips and a linear image.
package scrambler

import (
	"bytes"
	"fmt"
)

const (
	permutedBits = 13
	permutedMask = 1<<permutedBits - 1

	// invertMask marks the address lines that are wired inverted.
	invertMask = 1<<1 | 1<<4 | 1<<9 | 1<<11

	// Alignment is the image size granularity both operations require.
	Alignment = 2 << permutedBits
)

// bitOrder maps every output address bit to the scrambled input bit.
var bitOrder = [permutedBits]uint8{4, 9, 0, 12, 6, 2, 11, 1, 7, 3, 10, 5, 8}

type marker struct {
	offset int
	data   string
}

// markers only read correctly in an unscrambled image.
var markers = []marker{
	{0x0000, "\x80\x37"},
	{0x0002, "\x12\x40"},
	{0x0020, "XP"},
	{0x0022, "LO"},
	{0x0024, "RE"},
	{0x0026, "R6"},
	{0x0028, "4 "},
	{0x0040, "FC"},
}

// UnscrambleAddr returns the chip address that holds the byte of the linear plane address.
func UnscrambleAddr(addr uint32) uint32 {
	var out uint32
	for i, src := range bitOrder {
		out |= (addr >> src & 1) << i
	}
	out ^= invertMask
	return addr&^permutedMask | out
}

// ScrambleAddr is the inverse of UnscrambleAddr.
func ScrambleAddr(addr uint32) uint32 {
	in := addr&permutedMask ^ invertMask
	var out uint32
	for i, dst := range bitOrder {
		out |= (in >> i & 1) << dst
	}
	return addr&^permutedMask | out
}

// Unscramble returns the linear image of a scrambled chip dump.
func Unscramble(buf []byte) ([]byte, error) {
	return permute(buf, UnscrambleAddr)
}

// Scramble returns the chip dump layout of a linear image.
func Scramble(buf []byte) ([]byte, error) {
	return permute(buf, ScrambleAddr)
}

// IsScrambled returns whether the buffer is a scrambled Xplorer64 dump.
func IsScrambled(buf []byte) bool {
	if HasMarkers(buf) || len(buf)%Alignment != 0 || len(buf) == 0 {
		return false
	}
	linear, err := Unscramble(buf)
	if err != nil {
		return false
	}
	return HasMarkers(linear)
}

// HasMarkers returns whether all Xplorer64 markers are found in the buffer.
func HasMarkers(buf []byte) bool {
	for _, m := range markers {
		end := m.offset + len(m.data)
		if end > len(buf) || !bytes.Equal(buf[m.offset:end], []byte(m.data)) {
			return false
		}
	}
	return true
}

// permute deinterleaves the two byte planes, moves every plane byte from the
// address returned by src and interleaves the result.
func permute(buf []byte, src func(uint32) uint32) ([]byte, error) {
	if len(buf)%Alignment != 0 {
		return nil, fmt.Errorf("image size 0x%X is not a multiple of 0x%X", len(buf), Alignment)
	}

	planeSize := len(buf) / 2
	high := make([]byte, planeSize)
	low := make([]byte, planeSize)
	for i := range planeSize {
		high[i] = buf[2*i]
		low[i] = buf[2*i+1]
	}

	result := make([]byte, len(buf))
	for i := range planeSize {
		from := src(uint32(i))
		result[2*i] = high[from]
		result[2*i+1] = low[from]
	}
	return result, nil
}
