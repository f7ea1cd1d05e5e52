// Package detector handles ROM image format detection.
package detector

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/retroenv/retrocheat/internal/scrambler"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrogolib/log"
)

// Format is the on-disk format of a ROM image.
type Format string

// Supported formats.
const (
	GameShark          Format = "gameshark"
	GameSharkEncrypted Format = "gameshark-encrypted"
	Xplorer64          Format = "xplorer64"
	Xplorer64Scrambled Format = "xplorer64-scrambled"
	Unknown            Format = "unknown"
)

// Formats lists the formats that can be forced by name.
var Formats = []Format{GameShark, GameSharkEncrypted, Xplorer64, Xplorer64Scrambled}

// minImageSize covers the complete image header.
const minImageSize = 0x40

// headerTitle is the range of the title string in the image header.
const (
	headerTitleStart = 0x20
	headerTitleEnd   = 0x30
)

type brandMarker struct {
	marker string
	brand  string
}

var brandMarkers = []brandMarker{
	{"GameShark", "GameShark"},
	{"Action Replay", "Action Replay"},
	{"Equalizer", "Equalizer"},
	{"Game Buster", "Game Buster"},
	{"Xplorer", "Xplorer64"},
	{"XPLORER", "Xplorer64"},
}

// FindBrand returns the brand of the first marker found in buf.
func FindBrand(buf []byte) (string, bool) {
	for _, m := range brandMarkers {
		if bytes.Contains(buf, []byte(m.marker)) {
			return m.brand, true
		}
	}
	return "", false
}

// ParseFormat returns the format for the given name.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("unsupported format '%s'", name)
}

// Detector handles format detection from magic bytes and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the image format. A non empty hint forces the format,
// otherwise it is detected from the image content.
func (d *Detector) Detect(buf []byte, hint string) Format {
	if hint != "" {
		format, err := ParseFormat(hint)
		if err == nil {
			return format
		}
		d.logger.Warn("Ignoring unsupported format option", log.String("format", hint))
	}

	format := d.detectFromContent(buf)
	d.logger.Debug("Auto-detected format",
		log.String("format", string(format)),
		log.Int("size", len(buf)))
	return format
}

func (d *Detector) detectFromContent(buf []byte) Format {
	if len(buf) < minImageSize {
		return Unknown
	}

	switch {
	case transport.IsEncrypted(buf):
		return GameSharkEncrypted

	case transport.IsPlaintext(buf):
		return plaintextFormat(buf)

	case scrambler.IsScrambled(buf):
		return Xplorer64Scrambled

	default:
		return Unknown
	}
}

// plaintextFormat uses the header title, falling back to a search of the
// whole image for a brand marker.
func plaintextFormat(buf []byte) Format {
	brand, ok := FindBrand(buf[headerTitleStart:headerTitleEnd])
	if !ok {
		brand, ok = FindBrand(buf)
	}
	if !ok {
		return Unknown
	}
	if brand == "Xplorer64" || scrambler.HasMarkers(buf) {
		return Xplorer64
	}
	return GameShark
}
