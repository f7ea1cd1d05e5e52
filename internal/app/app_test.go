package app

import (
	"testing"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrocheat/internal/romtest"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestPrintROM(t *testing.T) {
	logger := log.NewTestLogger(t)
	rom, err := container.Parse(logger, romtest.GameSharkV3(t), container.Options{})
	assert.NoError(t, err)
	assert.NotNil(t, rom.Files)

	var opts options.Program
	opts.Input = "gs330.bin"
	opts.Operation = options.Decode
	PrintInfo(logger, opts, detector.GameShark)
	PrintInfo(logger, opts, detector.Unknown)
	PrintROM(logger, rom)
}
