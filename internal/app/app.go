// Package app provides the logging helpers that describe the processed ROM.
package app

import (
	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and its detected format.
func PrintInfo(logger *log.Logger, opts options.Program, format detector.Format) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing ROM",
		log.String("file", opts.Input),
		log.String("format", string(format)),
		log.String("operation", opts.Operation),
	)
	if format == detector.Unknown {
		logger.Warn("Image format could not be detected, the operation may fail")
	}
}

// PrintROM prints the parsed firmware summary.
func PrintROM(logger *log.Logger, rom *container.ROM) {
	logger.Info("Parsed firmware",
		log.String("layout", rom.Layout.Name),
		log.String("version", rom.Version.String()),
		log.Int("games", len(rom.Games)),
		log.Int("key_codes", len(rom.KeyCodes)))

	if index := rom.ActiveGame(); index >= 0 {
		logger.Debug("Active game", log.String("name", rom.Games[index].Name))
	}
	if index := rom.ActiveKeyCode(); index >= 0 {
		key := rom.KeyCodes[index]
		logger.Debug("Active key code",
			log.String("name", key.Name),
			log.String("code", key.String()))
	}
	if rom.Files != nil {
		logger.Debug("Embedded files", log.Int("count", len(rom.Files.Files)), log.Hex("start", rom.Files.Start))
	}
}
