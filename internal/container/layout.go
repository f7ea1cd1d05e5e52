package container

import (
	"encoding/binary"

	"github.com/retroenv/retrocheat/internal/romerr"
)

// Header field offsets, common to all layouts.
const (
	headerMagic     = 0x00
	headerActiveKey = 0x10
	headerTitle     = 0x20
	headerBuild     = 0x30

	titleSize = 0x10
	buildSize = 0x10
)

type probe struct {
	offset uint32
	value  uint32
}

// Layout describes where a firmware revision stores its user data.
type Layout struct {
	Name        string
	Brand       string // brand used when the image contains no brand marker
	probes      [2]probe
	KeyList     uint32 // 0 if the firmware has a single key code in the header
	Games       uint32
	Preferences uint32 // 0 if the firmware stores no preferences
	FirmwareEnd uint32 // end of the payload the key codes are computed over
	Tokens      bool   // names use single byte word tokens
	Ciphered    bool   // codes may be stored encrypted
}

var layouts = []*Layout{
	{
		Name:        "gs-v3",
		Brand:       "GameShark",
		probes:      [2]probe{{0x1000, 0x3C1A8000}, {0x2FFFC, 0x47530300}},
		KeyList:     0x2D000,
		Games:       0x30000,
		Preferences: 0x2FF00,
		FirmwareEnd: 0x2D000,
		Tokens:      true,
	},
	{
		Name:        "gs-v2",
		Brand:       "GameShark",
		probes:      [2]probe{{0x1000, 0x3C1A8000}, {0x2FFFC, 0x47530200}},
		Games:       0x30000,
		FirmwareEnd: 0x2F000,
		Tokens:      true,
	},
	{
		Name:        "xp64",
		Brand:       "Xplorer64",
		probes:      [2]probe{{0x1000, 0x3C088000}, {0x2FFFC, 0x58500100}},
		Games:       0x30000,
		FirmwareEnd: 0x2F000,
		Ciphered:    true,
	},
}

// Layouts returns the names of all supported layouts.
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		names = append(names, l.Name)
	}
	return names
}

// resolveLayout finds the layout whose magic words all match the image.
func resolveLayout(buf []byte) (*Layout, error) {
	for _, l := range layouts {
		if l.matches(buf) {
			return l, nil
		}
	}
	return nil, romerr.NewFormatError("cheat device", "no known firmware layout matches")
}

func (l *Layout) matches(buf []byte) bool {
	for _, p := range l.probes {
		end := int(p.offset) + 4
		if end > len(buf) || binary.BigEndian.Uint32(buf[p.offset:]) != p.value {
			return false
		}
	}
	return int(l.Games) < len(buf)
}
