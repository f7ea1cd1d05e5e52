// Package transport implements the whole image obfuscation that GameShark updater
// images are distributed with.
package transport

import (
	"encoding/binary"
	"fmt"
)

// PlainMagic is the first word of a plaintext N64 ROM image.
const PlainMagic uint32 = 0x80371240

// EncryptedMagic is the first word of an encrypted image, the encryption of PlainMagic.
const EncryptedMagic uint32 = 0xAE59F254

const wordSize = 4

var seeds = [16]uint32{
	0x2E6E7114, 0x9F1B4C07, 0x51D3A2E9, 0xC4770B3D,
	0x0A9E5F62, 0x7B2CD481, 0xE3418A5B, 0x36F90C2E,
	0x8D5B67F0, 0x14C2B39A, 0xF06E1D45, 0x6A84F2C7,
	0xB9171E6C, 0x23DA5098, 0xCC3F8B21, 0x5E06E7D3,
}

// IsEncrypted returns whether the buffer starts with the encrypted magic.
func IsEncrypted(buf []byte) bool {
	return len(buf) >= wordSize && binary.BigEndian.Uint32(buf) == EncryptedMagic
}

// IsPlaintext returns whether the buffer starts with the plaintext magic.
func IsPlaintext(buf []byte) bool {
	return len(buf) >= wordSize && binary.BigEndian.Uint32(buf) == PlainMagic
}

// Encrypt obfuscates the buffer in place.
func Encrypt(buf []byte) error {
	return apply(buf, encryptWord)
}

// Decrypt reverses Encrypt in place.
func Decrypt(buf []byte) error {
	return apply(buf, decryptWord)
}

func encryptWord(v, seed uint32) uint32 {
	return (v + seed&0xFF00) ^ seed
}

func decryptWord(v, seed uint32) uint32 {
	return (v ^ seed) - seed&0xFF00
}

func apply(buf []byte, fn func(v, seed uint32) uint32) error {
	if len(buf)%wordSize != 0 {
		return fmt.Errorf("buffer size %d is not a multiple of %d", len(buf), wordSize)
	}

	for i := 0; i < len(buf); i += wordSize {
		seed := seeds[(i/wordSize)%len(seeds)]
		v := binary.BigEndian.Uint32(buf[i:])
		binary.BigEndian.PutUint32(buf[i:], fn(v, seed))
	}
	return nil
}
