// Package cic computes the boot checksum the console's CIC chip verifies and
// builds the key codes a cheat device presents to it.
package cic

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"
)

// Identity is the CIC boot chip revision that decides checksum seed,
// combiner and entry point.
type Identity int

const (
	CIC6102 Identity = iota // also used by CIC6101 cartridges
	CIC6103
	CIC6105
	CIC6106
)

// Identities lists all supported boot chips.
var Identities = []Identity{CIC6102, CIC6103, CIC6105, CIC6106}

const (
	// KeyCodeSize is the size of a key code: checksum pair, entry point and check digit.
	KeyCodeSize = 13
	// HeaderSize is the number of image header bytes summed into the check digit.
	HeaderSize = 16

	checksumStart  = 0x1000
	checksumLength = 0x100000
	checksumEnd    = checksumStart + checksumLength

	table6105Start = 0x750
)

var names = map[Identity]string{
	CIC6102: "6102",
	CIC6103: "6103",
	CIC6105: "6105",
	CIC6106: "6106",
}

var seeds = map[Identity]uint32{
	CIC6102: 0xF8CA4DDC,
	CIC6103: 0xA3886759,
	CIC6105: 0xDF26F436,
	CIC6106: 0x1FEA617A,
}

var entryPoints = map[Identity]uint32{
	CIC6102: 0x80201000,
	CIC6103: 0x80190000,
	CIC6105: 0x80180000,
	CIC6106: 0x80200400,
}

type combiner func(t1, t2, t3, t4, t5, t6 uint32) (uint32, uint32)

var combiners = map[Identity]combiner{
	CIC6102: combineXOR,
	CIC6103: func(t1, t2, t3, t4, t5, t6 uint32) (uint32, uint32) {
		return (t6 ^ t4) + t3, (t5 ^ t2) + t1
	},
	CIC6105: combineXOR,
	CIC6106: func(t1, t2, t3, t4, t5, t6 uint32) (uint32, uint32) {
		return (t6 * t4) + t3, (t5 * t2) + t1
	},
}

func combineXOR(t1, t2, t3, t4, t5, t6 uint32) (uint32, uint32) {
	return t6 ^ t4 ^ t3, t5 ^ t2 ^ t1
}

func (id Identity) String() string {
	name, ok := names[id]
	if !ok {
		return fmt.Sprintf("Identity(%d)", int(id))
	}
	return "CIC-NUS-" + name
}

// Valid returns whether the identity is one of the supported boot chips.
func (id Identity) Valid() bool {
	_, ok := seeds[id]
	return ok
}

// EntryPoint returns the boot entry point address the chip expects.
func (id Identity) EntryPoint() uint32 {
	return entryPoints[id]
}

// ParseIdentity parses a chip name like "6102" or "CIC-NUS-6105".
// 6101 maps to CIC6102 as both share the checksum algorithm.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "CIC-NUS-")
	if s == "6101" {
		return CIC6102, nil
	}
	for id, name := range names {
		if name == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unsupported CIC identity '%s'", s)
}

// IdentityForEntryPoint returns the chip whose key codes use the given entry point.
func IdentityForEntryPoint(entry uint32) (Identity, bool) {
	for _, id := range Identities {
		if entryPoints[id] == entry {
			return id, true
		}
	}
	return 0, false
}

// Checksum is the pair of boot checksum words.
type Checksum struct {
	CRC1 uint32
	CRC2 uint32
}

// Compute calculates the boot checksum of the payload for the given chip.
// Payloads shorter than the checksummed range are zero padded.
func Compute(payload []byte, id Identity) (Checksum, error) {
	seed, ok := seeds[id]
	if !ok {
		return Checksum{}, fmt.Errorf("unsupported CIC identity %d", int(id))
	}

	var table [64]uint32
	if id == CIC6105 {
		for i := range table {
			table[i] = word(payload, table6105Start+i*4)
		}
	}

	t1, t2, t3, t4, t5, t6 := seed, seed, seed, seed, seed, seed
	for offset := checksumStart; offset < checksumEnd; offset += 4 {
		d := word(payload, offset)

		if t6+d < t6 {
			t4++
		}
		t6 += d
		t3 ^= d
		r := bits.RotateLeft32(d, int(d&0x1F))
		t5 += r
		if t2 > d {
			t2 ^= r
		} else {
			t2 ^= t6 ^ d
		}

		if id == CIC6105 {
			t1 += table[(offset&0xFF)/4] ^ d
		} else {
			t1 += t5 ^ d
		}
	}

	crc1, crc2 := combiners[id](t1, t2, t3, t4, t5, t6)
	return Checksum{CRC1: crc1, CRC2: crc2}, nil
}

// CheckDigit returns the low 8 bits of the sum of the four header words and
// the three words of the first 12 key code bytes.
func CheckDigit(header, key []byte) (byte, error) {
	if len(header) < HeaderSize {
		return 0, fmt.Errorf("header of %d bytes is too short for check digit", len(header))
	}
	if len(key) < KeyCodeSize-1 {
		return 0, fmt.Errorf("key code of %d bytes is too short for check digit", len(key))
	}

	var sum uint32
	for i := 0; i < HeaderSize; i += 4 {
		sum += binary.BigEndian.Uint32(header[i:])
	}
	for i := 0; i < KeyCodeSize-1; i += 4 {
		sum += binary.BigEndian.Uint32(key[i:])
	}
	return byte(sum), nil
}

// KeyCode builds the 13 byte key code for the payload and chip. The first
// HeaderSize bytes of the payload are used as image header for the check digit.
func KeyCode(payload []byte, id Identity) ([]byte, error) {
	sum, err := Compute(payload, id)
	if err != nil {
		return nil, err
	}

	key := make([]byte, KeyCodeSize)
	binary.BigEndian.PutUint32(key[0:], sum.CRC1)
	binary.BigEndian.PutUint32(key[4:], sum.CRC2)
	binary.BigEndian.PutUint32(key[8:], id.EntryPoint())

	header := make([]byte, HeaderSize)
	copy(header, payload)
	digit, err := CheckDigit(header, key)
	if err != nil {
		return nil, err
	}
	key[12] = digit
	return key, nil
}

// Identify returns the chip a key code was generated for, derived from its entry point.
func Identify(key []byte) (Identity, bool) {
	if len(key) < KeyCodeSize {
		return 0, false
	}
	return IdentityForEntryPoint(binary.BigEndian.Uint32(key[8:]))
}

// word reads a big endian word, bytes past the end of the payload read as 0.
func word(payload []byte, offset int) uint32 {
	if offset+4 <= len(payload) {
		return binary.BigEndian.Uint32(payload[offset:])
	}
	var b [4]byte
	if offset < len(payload) {
		copy(b[:], payload[offset:])
	}
	return binary.BigEndian.Uint32(b[:])
}
