package verification

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/romtest"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestVerifyRoundTrip(t *testing.T) {
	encrypted := romtest.GameSharkV3(t)
	assert.NoError(t, transport.Encrypt(encrypted))

	tests := []struct {
		name  string
		image []byte
	}{
		{name: "gameshark v3", image: romtest.GameSharkV3(t)},
		{name: "gameshark v3 encrypted", image: encrypted},
		{name: "gameshark v2", image: romtest.GameSharkV2()},
		{name: "xplorer64", image: romtest.Xplorer64(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyRoundTrip(log.NewTestLogger(t), tt.image, container.Options{})
			assert.NoError(t, err)
		})
	}
}

func TestVerifyRoundTripMismatch(t *testing.T) {
	image := romtest.GameSharkV3(t)
	// a stale key code gets recomputed on serialization
	image[romtest.KeyList+4] ^= 0x01

	err := VerifyRoundTrip(log.NewTestLogger(t), image, container.Options{})
	assert.ErrorContains(t, err, "1 offset mismatches")
}

func TestCheckBufferEqual(t *testing.T) {
	logger := log.NewTestLogger(t)

	assert.NoError(t, checkBufferEqual(logger, []byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.ErrorContains(t, checkBufferEqual(logger, []byte{1, 2}, []byte{1}), "mismatched lengths")

	input := bytes.Repeat([]byte{0xAA}, 32)
	output := bytes.Repeat([]byte{0x55}, 32)
	assert.ErrorContains(t, checkBufferEqual(logger, input, output), "32 offset mismatches")
}
