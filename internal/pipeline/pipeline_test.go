package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrocheat/internal/romtest"
	"github.com/retroenv/retrocheat/internal/scrambler"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func programOptions(operation string) options.Program {
	return options.Program{
		Flags: options.Flags{Operation: operation},
		PreferenceFlags: options.PreferenceFlags{
			Sound:             options.Unset,
			BackgroundPattern: options.Unset,
			BackgroundColor:   options.Unset,
			MenuScroll:        options.Unset,
			KeyCodeScroll:     options.Unset,
			SelectGame:        options.Unset,
			ActiveKeyCode:     options.Unset,
			KeyCodeCIC:        "6102",
		},
	}
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
}

func TestTransportOperations(t *testing.T) {
	p := New(log.NewTestLogger(t))
	ctx := context.Background()
	plain := romtest.GameSharkV3(t)

	encrypted, err := p.ExecuteWithBuffer(ctx, plain, programOptions(options.Encrypt))
	assert.NoError(t, err)
	assert.Equal(t, detector.GameShark, encrypted.Format)
	assert.True(t, transport.IsEncrypted(encrypted.Output))
	assert.True(t, transport.IsPlaintext(plain))

	decrypted, err := p.ExecuteWithBuffer(ctx, encrypted.Output, programOptions(options.Decrypt))
	assert.NoError(t, err)
	assert.Equal(t, detector.GameSharkEncrypted, decrypted.Format)
	assert.True(t, bytes.Equal(plain, decrypted.Output))

	_, err = p.ExecuteWithBuffer(ctx, encrypted.Output, programOptions(options.Encrypt))
	assert.ErrorContains(t, err, "already encrypted")
	_, err = p.ExecuteWithBuffer(ctx, plain, programOptions(options.Decrypt))
	assert.ErrorContains(t, err, "is not encrypted")
}

func TestScrambleOperations(t *testing.T) {
	p := New(log.NewTestLogger(t))
	ctx := context.Background()
	linear := romtest.Xplorer64(t)

	opts := programOptions(options.Scramble)
	opts.Verify = true
	scrambled, err := p.ExecuteWithBuffer(ctx, linear, opts)
	assert.NoError(t, err)
	assert.True(t, scrambler.IsScrambled(scrambled.Output))

	unscrambled, err := p.ExecuteWithBuffer(ctx, scrambled.Output, programOptions(options.Unscramble))
	assert.NoError(t, err)
	assert.Equal(t, detector.Xplorer64Scrambled, unscrambled.Format)
	assert.True(t, bytes.Equal(linear, unscrambled.Output))

	_, err = p.ExecuteWithBuffer(ctx, linear, programOptions(options.Unscramble))
	assert.ErrorContains(t, err, "is not scrambled")
}

func TestDecode(t *testing.T) {
	p := New(log.NewTestLogger(t))
	plain := romtest.GameSharkV3(t)
	encrypted := bytes.Clone(plain)
	assert.NoError(t, transport.Encrypt(encrypted))

	result, err := p.ExecuteWithBuffer(context.Background(), encrypted, programOptions(options.Decode))
	assert.NoError(t, err)
	assert.NotNil(t, result.ROM)
	assert.Equal(t, "3.30", result.ROM.Version.Number)
	assert.True(t, bytes.Equal(plain, result.Output))
}

func TestEncodeWithEdits(t *testing.T) {
	p := New(log.NewTestLogger(t))
	ctx := context.Background()
	encrypted := romtest.GameSharkV3(t)
	assert.NoError(t, transport.Encrypt(encrypted))

	opts := programOptions(options.Encode)
	opts.SelectGame = 0
	opts.Sound = 0
	opts.AddKeyCode = "Yoshi"
	opts.KeyCodeCIC = "6106"
	opts.Verify = true

	result, err := p.ExecuteWithBuffer(ctx, encrypted, opts)
	assert.NoError(t, err)
	assert.True(t, transport.IsEncrypted(result.Output))
	assert.Equal(t, "3.30", result.ROM.Version.Number)
	assert.NotNil(t, result.ROM.Files)

	rom, err := container.Parse(log.NewTestLogger(t), result.Output, container.Options{StrictKeys: true})
	assert.NoError(t, err)
	assert.Equal(t, 0, rom.ActiveGame())
	assert.Equal(t, uint8(0), rom.Preferences.Sound)
	assert.Len(t, rom.KeyCodes, 3)
	assert.Equal(t, "Yoshi", rom.KeyCodes[2].Name)

	opts.KeyCodeCIC = "7101"
	_, err = p.ExecuteWithBuffer(ctx, encrypted, opts)
	assert.ErrorContains(t, err, "unsupported CIC identity")
}

func TestVerify(t *testing.T) {
	p := New(log.NewTestLogger(t))
	ctx := context.Background()

	result, err := p.ExecuteWithBuffer(ctx, romtest.Xplorer64(t), programOptions(options.Verify))
	assert.NoError(t, err)
	assert.Nil(t, result.Output)

	_, err = p.ExecuteWithBuffer(ctx, make([]byte, 0x100), programOptions(options.Verify))
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	p := New(log.NewTestLogger(t))
	path := filepath.Join(t.TempDir(), "gs.bin")
	assert.NoError(t, os.WriteFile(path, romtest.GameSharkV2(), 0o644))

	opts := programOptions(options.Decode)
	opts.Input = path
	result, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, "gs-v2", result.ROM.Layout.Name)

	opts.Input = filepath.Join(t.TempDir(), "missing.bin")
	_, err = p.Execute(context.Background(), opts)
	assert.ErrorContains(t, err, "loading image")
}

func TestCancelledContext(t *testing.T) {
	p := New(log.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ExecuteWithBuffer(ctx, romtest.GameSharkV2(), programOptions(options.Decode))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUnsupportedOperation(t *testing.T) {
	p := New(log.NewTestLogger(t))
	_, err := p.ExecuteWithBuffer(context.Background(), romtest.GameSharkV2(), programOptions("print"))
	assert.ErrorContains(t, err, "unsupported operation")
}
