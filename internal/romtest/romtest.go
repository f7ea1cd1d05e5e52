// Package romtest builds synthetic cheat device ROM images for tests.
package romtest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/codecipher"
	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/fsblob"
	"github.com/retroenv/retrocheat/internal/transport"
)

// Image layout constants of the synthetic images.
const (
	ImageSize   = 0x40000
	KeyList     = 0x2D000
	Preferences = 0x2FF00
	Games       = 0x30000

	keyNameSize = 0x30 - cic.KeyCodeSize
)

// Probe values of the supported layouts.
const (
	BootProbeGameShark = 0x3C1A8000
	BootProbeXplorer   = 0x3C088000
	LayoutGameSharkV3  = 0x47530300
	LayoutGameSharkV2  = 0x47530200
	LayoutXplorer      = 0x58500100
)

// Cheat is a raw on-disk cheat.
type Cheat struct {
	Name  []byte
	Flags byte
	Codes [][]byte
}

// Game is a raw on-disk game.
type Game struct {
	Name   []byte
	Cheats []Cheat
}

// GameSharkGames is a game list using name tokens.
var GameSharkGames = []Game{
	{
		Name: []byte("Super Mario 64"),
		Cheats: []Cheat{
			{Name: []byte{0x80, 0x84}, Flags: 0x81, Codes: [][]byte{{0x80, 0x33, 0xB2, 0x1E, 0x00, 0x64}}},
			{Name: []byte("Have Star"), Flags: 0x02, Codes: [][]byte{
				{0x80, 0x20, 0x7E, 0x43, 0x00, 0x01},
				{0x81, 0x20, 0x7E, 0x44, 0xFF, 0xFF},
			}},
		},
	},
	{
		Name: []byte("Zelda"),
		Cheats: []Cheat{
			{Name: []byte{0x81, 0x85}, Flags: 0x01, Codes: [][]byte{{0x81, 0x11, 0xA6, 0x04, 0x01, 0x40}}},
		},
	},
}

// GameList encodes games in the on-disk game list format.
func GameList(games []Game) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(games)))
	for _, game := range games {
		buf.Write(game.Name)
		buf.WriteByte(0)
		buf.WriteByte(byte(len(game.Cheats)))
		for _, cheat := range game.Cheats {
			buf.Write(cheat.Name)
			buf.WriteByte(0)
			buf.WriteByte(cheat.Flags)
			for _, code := range cheat.Codes {
				buf.Write(code)
			}
		}
	}
	return buf.Bytes()
}

// Base returns an image with header, title, build timestamp and layout probes.
func Base(title, build string, bootProbe, layoutProbe uint32) []byte {
	buf := make([]byte, ImageSize)
	binary.BigEndian.PutUint32(buf[0x00:], transport.PlainMagic)
	binary.BigEndian.PutUint32(buf[0x04:], 0x0000000F)
	binary.BigEndian.PutUint32(buf[0x08:], 0x80201000)
	binary.BigEndian.PutUint32(buf[0x0C:], 0x00001449)
	copy(buf[0x20:], title)
	copy(buf[0x30:], build)
	binary.BigEndian.PutUint32(buf[0x1000:], bootProbe)
	binary.BigEndian.PutUint32(buf[0x2FFFC:], layoutProbe)
	return buf
}

// WriteGames writes the game list and fills the rest of the region with 0xFF.
func WriteGames(buf []byte, games []Game) {
	region := buf[Games:]
	for i := range region {
		region[i] = 0xFF
	}
	copy(region, GameList(games))
}

// GameSharkV3 returns a compressed GameShark 3.30 image with two key codes,
// the second one active, preferences selecting the second game.
func GameSharkV3(t testing.TB) []byte {
	t.Helper()
	buf := Base("GameShark Pro", "10:51 Apr 20 00", BootProbeGameShark, LayoutGameSharkV3)

	copy(buf[0x100:], fsblob.BootstrapName)
	blob, err := fsblob.Build([]*fsblob.File{
		{Name: fsblob.BootstrapName, Data: bytes.Repeat([]byte{0x12, 0x34}, 64)},
		{Name: fsblob.ShellName, Files: []*fsblob.File{
			{Name: "menu.txt", Data: []byte("GameShark Pro Version 3.30")},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	copy(buf[0x2000:], blob)

	keys := []struct {
		id   cic.Identity
		name string
	}{
		{cic.CIC6102, "Mario World 64 & Others"},
		{cic.CIC6105, "Zelda"},
	}
	c := cursor.NewBE(buf)
	if err := c.Seek(KeyList); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteU32(uint32(len(keys))); err != nil {
		t.Fatal(err)
	}
	for _, key := range keys {
		code, err := cic.KeyCode(buf[:KeyList], key.id)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.WriteBytes(code); err != nil {
			t.Fatal(err)
		}
		if err := c.WriteFixedString([]byte(key.name), keyNameSize); err != nil {
			t.Fatal(err)
		}
		copy(buf[0x10:], code)
	}

	copy(buf[Preferences:], []byte{1, 2, 3, 4, 5, 0, 0x00, 0x01})
	WriteGames(buf, GameSharkGames)
	return buf
}

// GameSharkV2 returns an uncompressed GameShark 2.50 image with one game.
func GameSharkV2() []byte {
	buf := Base("GameShark", "", BootProbeGameShark, LayoutGameSharkV2)
	copy(buf[0x4000:], "GameShark Version 2.50")
	WriteGames(buf, GameSharkGames[1:])
	return buf
}

// Xplorer64 returns a linear Xplorer64 image with plain and encrypted codes.
func Xplorer64(t testing.TB) []byte {
	t.Helper()
	buf := Base("XPLORER64 ", "", BootProbeXplorer, LayoutXplorer)
	copy(buf[0x40:], "FC")
	copy(buf[0x3000:], "Xplorer64 Version 1.067")

	encrypt := func(code []byte, method codecipher.Method) []byte {
		b, err := codecipher.Encrypt(code, method)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	WriteGames(buf, []Game{
		{
			Name: []byte{'G', 'o', 'l', 'd', 'e', 'n', 'E', 'y', 'e', ' ', 0xE9},
			Cheats: []Cheat{
				{Name: []byte("Ammo"), Flags: 0x83, Codes: [][]byte{
					encrypt([]byte{0x81, 0x12, 0x34, 0x56, 0x00, 0x01}, codecipher.Method1),
					encrypt([]byte{0x88, 0x0F, 0x00, 0x10, 0x00, 0x20}, codecipher.Method2),
					{0x80, 0x0E, 0x8E, 0xC1, 0x00, 0x63},
				}},
			},
		},
	})
	return buf
}
