// Package fsblob reads and writes the embedded file system of GameShark
// firmware: a sequence of named records holding LZARI compressed files.
package fsblob

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/lzari"
	"github.com/retroenv/retrocheat/internal/romerr"
)

const (
	// BootstrapName is the first file of every blob, used to find the blob start.
	BootstrapName = "gslogo3.bin"
	// ShellName is the file that contains a nested blob.
	ShellName = "shell.bin"

	nameSize   = 12
	headerSize = 4 + nameSize
	alignment  = 4
)

// File is a single record of a blob.
type File struct {
	Name       string
	Offset     uint32 // record offset inside the parent buffer
	Compressed []byte
	Data       []byte
	Files      []*File // records of a nested blob
}

// Blob is a parsed file system.
type Blob struct {
	Start uint32
	End   uint32 // offset after the last record
	Files []*File
}

// IsCompressed returns whether the image contains an embedded file system.
func IsCompressed(buf []byte) bool {
	return bytes.Contains(buf, []byte(BootstrapName))
}

// Parse locates the embedded file system of an image and decompresses all files.
// The bootstrap name first appears as a reference in the boot code, the record
// holding it starts 4 bytes before its second occurrence. Images that contain
// the name only once are read from that occurrence.
func Parse(buf []byte) (*Blob, error) {
	name := []byte(BootstrapName)
	first := bytes.Index(buf, name)
	if first < 0 {
		return nil, romerr.NewFormatError("compressed firmware", "bootstrap file '%s' not found", BootstrapName)
	}
	pos := first
	if next := bytes.Index(buf[first+len(name):], name); next >= 0 {
		pos = first + len(name) + next
	}
	if pos < 4 {
		return nil, romerr.NewFormatError("compressed firmware", "bootstrap file at invalid offset 0x%X", pos)
	}

	return ParseAt(buf, uint32(pos-4))
}

// ParseAt reads the records starting at the given offset.
func ParseAt(buf []byte, start uint32) (*Blob, error) {
	files, end, err := parseRecords(buf, start)
	if err != nil {
		return nil, err
	}
	return &Blob{
		Start: start,
		End:   end,
		Files: files,
	}, nil
}

func parseRecords(buf []byte, start uint32) ([]*File, uint32, error) {
	c := cursor.NewBE(buf)
	if err := c.Seek(start); err != nil {
		return nil, 0, fmt.Errorf("seeking to blob start: %w", err)
	}

	var files []*File
	for c.Remaining() >= headerSize {
		offset := c.Pos()
		if endMarker(buf[offset:]) {
			break
		}
		length, err := c.ReadU32()
		if err != nil {
			return nil, 0, err
		}
		if length < headerSize || int(length) > len(buf)-int(offset) {
			break
		}

		name, err := c.ReadCString(nameSize, false, cursor.AnyByte)
		if err != nil {
			return nil, 0, err
		}
		compressed, err := c.ReadBytes(int(length) - headerSize)
		if err != nil {
			return nil, 0, err
		}

		file, err := newFile(name.Value, offset, compressed)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, file)

		next := offset + align(length)
		if int(next) > len(buf) {
			next = uint32(len(buf))
		}
		if err := c.Seek(next); err != nil {
			return nil, 0, err
		}
	}

	return files, c.Pos(), nil
}

func newFile(name string, offset uint32, compressed []byte) (*File, error) {
	data, err := lzari.Decode(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompressing file '%s' at offset 0x%X: %w", name, offset, err)
	}

	file := &File{
		Name:       name,
		Offset:     offset,
		Compressed: compressed,
		Data:       data,
	}
	if name == ShellName {
		file.Files, _, err = parseRecords(data, 0)
		if err != nil {
			return nil, fmt.Errorf("parsing nested files of '%s': %w", name, err)
		}
	}
	return file, nil
}

// endMarker reports two consecutive all zero or all 0xFF words.
func endMarker(b []byte) bool {
	if len(b) < 8 {
		return true
	}
	first := binary.BigEndian.Uint32(b)
	second := binary.BigEndian.Uint32(b[4:])
	return (first == 0 || first == 0xFFFFFFFF) && (second == 0 || second == 0xFFFFFFFF)
}

func align(n uint32) uint32 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// Find returns the first file with the given name, searching nested blobs too.
func (b *Blob) Find(name string) *File {
	return find(b.Files, name)
}

func find(files []*File, name string) *File {
	for _, file := range files {
		if file.Name == name {
			return file
		}
		if nested := find(file.Files, name); nested != nil {
			return nested
		}
	}
	return nil
}

// Walk calls fn for every file, parents before their nested files.
func (b *Blob) Walk(fn func(file *File)) {
	walk(b.Files, fn)
}

func walk(files []*File, fn func(file *File)) {
	for _, file := range files {
		fn(file)
		walk(file.Files, fn)
	}
}

// Build writes files as records followed by an end marker. Files with nested
// files get their data rebuilt from them.
func Build(files []*File) ([]byte, error) {
	var out []byte
	for _, file := range files {
		if len(file.Name) > nameSize {
			return nil, fmt.Errorf("file name '%s' exceeds %d bytes", file.Name, nameSize)
		}

		data := file.Data
		if len(file.Files) > 0 {
			nested, err := Build(file.Files)
			if err != nil {
				return nil, fmt.Errorf("building nested files of '%s': %w", file.Name, err)
			}
			data = nested
		}
		compressed := lzari.Encode(data)

		length := uint32(headerSize + len(compressed))
		record := make([]byte, align(length))
		binary.BigEndian.PutUint32(record, length)
		copy(record[4:], file.Name)
		copy(record[headerSize:], compressed)
		out = append(out, record...)
	}

	out = append(out, bytes.Repeat([]byte{0xFF}, 8)...)
	return out, nil
}
