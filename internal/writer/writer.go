// Package writer implements the text listing of the cheats stored in a ROM.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrocheat/internal/codecipher"
	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/model"
)

// Options of the writer.
type Options struct {
	MethodComments bool // annotate codes that are stored encrypted
}

// Writer writes a cheat list of a parsed ROM.
type Writer struct {
	rom     *container.ROM
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(rom *container.ROM, writer io.Writer, options Options) *Writer {
	return &Writer{
		rom:     rom,
		options: options,
		writer:  writer,
	}
}

// Write outputs the header comments followed by all games.
func (w Writer) Write() error {
	if err := w.WriteCommentHeader(); err != nil {
		return err
	}

	for i, game := range w.rom.Games {
		if i > 0 {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		if err := w.writeGame(game); err != nil {
			return fmt.Errorf("writing game %d: %w", i, err)
		}
	}
	return nil
}

// WriteCommentHeader writes the firmware version and the key codes as comments to the output.
func (w Writer) WriteCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; Firmware: %s\n", w.rom.Version); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Layout: %s\n", w.rom.Layout.Name); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}

	for _, key := range w.rom.KeyCodes {
		line := fmt.Sprintf("; Key code: %s %s", key.String(), key.Name)
		if key.Active {
			line += " (active)"
		}
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing key code: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w Writer) writeGame(game model.Game) error {
	line := `"` + game.Name + `"`
	if game.Active {
		line = fmt.Sprintf("%-32s ; selected", line)
	}
	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing game name: %w", err)
	}

	for _, cheat := range game.Cheats {
		state := "off"
		if cheat.Enabled {
			state = "on"
		}
		if _, err := fmt.Fprintf(w.writer, "  \"%s\" %s\n", cheat.Name, state); err != nil {
			return fmt.Errorf("writing cheat name: %w", err)
		}

		for _, code := range cheat.Codes {
			if err := w.writeCodeLine(code); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w Writer) writeCodeLine(code model.Code) error {
	prefix := "    "
	if code.Disabled {
		prefix = "  ; "
	}

	var comments []string
	if w.options.MethodComments && code.Method != codecipher.None {
		comments = append(comments, code.Method.String())
	}
	if code.Comment != "" {
		comments = append(comments, code.Comment)
	}

	var err error
	if len(comments) == 0 {
		_, err = fmt.Fprintf(w.writer, "%s%s\n", prefix, code)
	} else {
		_, err = fmt.Fprintf(w.writer, "%s%-28s ; %s\n", prefix, code, strings.Join(comments, ", "))
	}
	if err != nil {
		return fmt.Errorf("writing code line: %w", err)
	}
	return nil
}
