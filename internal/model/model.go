// Package model contains the editable representation of a cheat device ROM:
// games with their cheats and codes, key codes, preferences and version.
package model

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/codecipher"
)

// Code is a single cheat code of an address word and a value half word.
type Code struct {
	Bytes    [codecipher.CodeSize]byte
	Comment  string
	Disabled bool
	Method   codecipher.Method // cipher the code is stored with on disk
}

// ParseCode parses a code in the common "AAAAAAAA VVVV" notation.
func ParseCode(s string) (Code, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(digits) != 2*codecipher.CodeSize {
		return Code{}, fmt.Errorf("code '%s' must have %d hex digits", s, 2*codecipher.CodeSize)
	}

	var code Code
	if _, err := hex.Decode(code.Bytes[:], []byte(digits)); err != nil {
		return Code{}, fmt.Errorf("decoding code '%s': %w", s, err)
	}
	return code, nil
}

func (c Code) String() string {
	return fmt.Sprintf("%02X%02X%02X%02X %02X%02X",
		c.Bytes[0], c.Bytes[1], c.Bytes[2], c.Bytes[3], c.Bytes[4], c.Bytes[5])
}

// Cheat is a named group of codes that is switched on and off together.
type Cheat struct {
	Name    string
	Raw     []byte // on-disk name bytes, nil for new or renamed cheats
	Index   int
	Enabled bool
	Codes   []Code
}

// Game is a named list of cheats.
type Game struct {
	Name   string
	Raw    []byte // on-disk name bytes, nil for new or renamed games
	Index  int
	Active bool
	Cheats []Cheat
}

// KeyCode is the boot authentication value presented to the console.
type KeyCode struct {
	Name   string
	Code   [cic.KeyCodeSize]byte
	Active bool
}

// Identity returns the boot chip the key code was generated for.
func (k KeyCode) Identity() (cic.Identity, bool) {
	return cic.Identify(k.Code[:])
}

func (k KeyCode) String() string {
	return strings.ToUpper(hex.EncodeToString(k.Code[:]))
}

// Preferences is the user settings block of the device menu.
type Preferences struct {
	Sound             uint8
	BackgroundPattern uint8
	BackgroundColor   uint8
	MenuScroll        uint8
	KeyCodeScroll     uint8
	Reserved          uint8
	SelectedGame      uint16
}
