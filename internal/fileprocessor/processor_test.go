package fileprocessor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrocheat/internal/romtest"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestGenerateOutputFilename(t *testing.T) {
	tests := []struct {
		input     string
		operation string
		expected  string
	}{
		{input: "gs330.bin", operation: options.Decode, expected: "gs330.decoded.bin"},
		{input: "dir/gs330.bin", operation: options.Encrypt, expected: "dir/gs330.encrypted.bin"},
		{input: "xp64", operation: options.Unscramble, expected: "xp64.unscrambled"},
		{input: "gs330.bin", operation: options.Verify, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateOutputFilename(tt.input, tt.operation))
		})
	}
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bin", "b.bin", "c.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	opts := options.Program{}
	opts.Batch = filepath.Join(dir, "*.bin")
	files, err := GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	opts = options.Program{}
	opts.Input = "single.bin"
	files, err = GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Equal(t, "single.bin", files[0])
}

func TestProcessFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()
	plain := romtest.GameSharkV3(t)
	encrypted := bytes.Clone(plain)
	assert.NoError(t, transport.Encrypt(encrypted))

	input := filepath.Join(dir, "gs330.bin")
	assert.NoError(t, os.WriteFile(input, encrypted, 0o644))

	opts := options.Program{}
	opts.Input = input
	opts.Output = GenerateOutputFilename(input, options.Decode)
	opts.Operation = options.Decode
	opts.Extract = filepath.Join(dir, "files")
	opts.List = filepath.Join(dir, "gs330.txt")

	assert.NoError(t, ProcessFile(context.Background(), logger, opts))

	list, err := os.ReadFile(opts.List)
	assert.NoError(t, err)
	assert.Contains(t, string(list), `"Infinite Lives" on`)

	decoded, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(plain, decoded))

	menu, err := os.ReadFile(filepath.Join(dir, "files", "shell", "menu.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "GameShark Pro Version 3.30", string(menu))
	_, err = os.Stat(filepath.Join(dir, "files", "gslogo3.bin"))
	assert.NoError(t, err)
}

func TestProcessFileWithoutEmbeddedFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "xp64.bin")
	assert.NoError(t, os.WriteFile(input, romtest.Xplorer64(t), 0o644))

	opts := options.Program{}
	opts.Input = input
	opts.Operation = options.Decode
	opts.Extract = filepath.Join(dir, "files")

	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))
	_, err := os.Stat(opts.Extract)
	assert.True(t, os.IsNotExist(err))
}
