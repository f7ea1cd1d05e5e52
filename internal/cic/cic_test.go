package cic

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// syntheticPayload returns deterministic pseudo random firmware bytes.
func syntheticPayload(size int) []byte {
	buf := make([]byte, size)
	x := uint32(1)
	for i := range buf {
		x = x*1103515245 + 12345
		buf[i] = byte(x >> 24)
	}
	return buf
}

func TestKeyCodeGolden(t *testing.T) {
	payload := syntheticPayload(0x2D000)

	tests := []struct {
		id   Identity
		crc1 uint32
		crc2 uint32
		key  string
	}{
		{id: CIC6102, crc1: 0xD1FAFFC3, crc2: 0x4EB89437, key: "d1faffc34eb89437802010004f"},
		{id: CIC6103, crc1: 0x87C11556, crc2: 0xE8623A45, key: "87c11556e8623a4580190000f0"},
		{id: CIC6105, crc1: 0xFB5E0999, crc2: 0x49AB6C6E, key: "fb5e099949ab6c6e801800005c"},
		{id: CIC6106, crc1: 0x7E46EFAB, crc2: 0x6337E969, key: "7e46efab6337e9698020040069"},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			sum, err := Compute(payload, tt.id)
			assert.NoError(t, err)
			assert.Equal(t, tt.crc1, sum.CRC1)
			assert.Equal(t, tt.crc2, sum.CRC2)

			key, err := KeyCode(payload, tt.id)
			assert.NoError(t, err)
			assert.Equal(t, tt.key, hex.EncodeToString(key))

			id, ok := Identify(key)
			assert.True(t, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestComputeZeroPayload(t *testing.T) {
	tests := []struct {
		id   Identity
		crc1 uint32
		crc2 uint32
	}{
		{id: CIC6102, crc1: 0xF8CA4DDC, crc2: 0x303A4DDC},
		{id: CIC6103, crc1: 0xA3886759, crc2: 0x40EC6759},
		{id: CIC6105, crc1: 0xDF26F436, crc2: 0xDF26F436},
		{id: CIC6106, crc1: 0x04100F9E, crc2: 0x89F80F9E},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			sum, err := Compute(make([]byte, 16), tt.id)
			assert.NoError(t, err)
			assert.Equal(t, tt.crc1, sum.CRC1)
			assert.Equal(t, tt.crc2, sum.CRC2)
		})
	}
}

func TestZeroPadding(t *testing.T) {
	payload := syntheticPayload(0x2D000)
	padded := append(bytes.Clone(payload), make([]byte, 0x1000)...)

	a, err := Compute(payload, CIC6105)
	assert.NoError(t, err)
	b, err := Compute(padded, CIC6105)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCheckDigit(t *testing.T) {
	header := []byte{
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x04,
	}
	key := []byte{
		0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x20,
		0x00, 0x00, 0x01, 0x30, 0xAA,
	}
	digit, err := CheckDigit(header, key)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x6A), digit)

	_, err = CheckDigit(header[:8], key)
	assert.Error(t, err)
	_, err = CheckDigit(header, key[:4])
	assert.Error(t, err)
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		input    string
		expected Identity
	}{
		{input: "6101", expected: CIC6102},
		{input: "6102", expected: CIC6102},
		{input: "cic-nus-6103", expected: CIC6103},
		{input: "CIC-NUS-6105", expected: CIC6105},
		{input: " 6106 ", expected: CIC6106},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseIdentity(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}

	_, err := ParseIdentity("7101")
	assert.ErrorContains(t, err, "unsupported CIC identity")
}

func TestInvalidIdentity(t *testing.T) {
	id := Identity(9)
	assert.False(t, id.Valid())
	_, err := Compute(nil, id)
	assert.Error(t, err)
	_, ok := IdentityForEntryPoint(0x12345678)
	assert.False(t, ok)
}
