// Package config turns program options into logger and component settings.
package config

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger for the debug and quiet flags.
func CreateLogger(flags options.Flags) *log.Logger {
	cfg := log.DefaultConfig()
	if flags.Debug {
		cfg.Level = log.DebugLevel
	} else if flags.Quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// transformOperations rewrite the image bytes without reading the firmware contents.
var transformOperations = []string{options.Encrypt, options.Decrypt, options.Scramble, options.Unscramble}

// ContainerOptions returns the parser options for the program options.
func ContainerOptions(opts options.Program) container.Options {
	return container.Options{
		SkipFiles:  slices.Contains(transformOperations, opts.Operation),
		StrictKeys: opts.StrictKeys,
	}
}

// Edits converts the preference flags into container edits.
func Edits(prefs options.PreferenceFlags) (container.Edits, error) {
	var edits container.Edits

	byteFlags := []struct {
		name  string
		value int
		dst   **uint8
	}{
		{"sound", prefs.Sound, &edits.Sound},
		{"bgpattern", prefs.BackgroundPattern, &edits.BackgroundPattern},
		{"bgcolor", prefs.BackgroundColor, &edits.BackgroundColor},
		{"menuscroll", prefs.MenuScroll, &edits.MenuScroll},
		{"keyscroll", prefs.KeyCodeScroll, &edits.KeyCodeScroll},
	}
	for _, b := range byteFlags {
		if b.value == options.Unset {
			continue
		}
		if b.value < 0 || b.value > 0xFF {
			return container.Edits{}, fmt.Errorf("value %d of option '%s' is out of range 0-255", b.value, b.name)
		}
		v := uint8(b.value)
		*b.dst = &v
	}

	if prefs.SelectGame != options.Unset {
		v := prefs.SelectGame
		edits.SelectedGame = &v
	}
	if prefs.ActiveKeyCode != options.Unset {
		v := prefs.ActiveKeyCode
		edits.ActiveKeyCode = &v
	}
	return edits, nil
}
