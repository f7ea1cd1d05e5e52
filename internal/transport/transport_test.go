package transport

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, size := range []int{0, 4, 64, 1024, 0x40000} {
		data := make([]byte, size)
		_, _ = rng.Read(data)
		original := bytes.Clone(data)

		assert.NoError(t, Encrypt(data))
		if size > 0 {
			assert.False(t, bytes.Equal(original, data))
		}
		assert.NoError(t, Decrypt(data))
		assert.True(t, bytes.Equal(original, data))

		assert.NoError(t, Decrypt(data))
		assert.NoError(t, Encrypt(data))
		assert.True(t, bytes.Equal(original, data))
	}
}

func TestMagic(t *testing.T) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint32(buf, PlainMagic)
	assert.True(t, IsPlaintext(buf))
	assert.False(t, IsEncrypted(buf))

	assert.NoError(t, Encrypt(buf))
	assert.Equal(t, EncryptedMagic, binary.BigEndian.Uint32(buf))
	assert.True(t, IsEncrypted(buf))
	assert.False(t, IsPlaintext(buf))

	assert.False(t, IsEncrypted(buf[:3]))
}

func TestWordFormula(t *testing.T) {
	// seed 0x9F1B4C07: add 0x4C00 then xor
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[4:], 0x00000001)
	assert.NoError(t, Encrypt(buf))
	assert.Equal(t, uint32((0x00000001+0x4C00)^0x9F1B4C07), binary.BigEndian.Uint32(buf[4:]))
}

func TestUnaligned(t *testing.T) {
	assert.Error(t, Encrypt(make([]byte, 5)))
	assert.Error(t, Decrypt(make([]byte, 7)))
}
