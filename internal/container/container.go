// Package container parses cheat device ROM images into the editable model
// and serializes the model back into an image.
package container

import (
	"bytes"
	"fmt"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/fsblob"
	"github.com/retroenv/retrocheat/internal/model"
	"github.com/retroenv/retrocheat/internal/romerr"
	"github.com/retroenv/retrocheat/internal/scrambler"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrogolib/log"
)

// Options control parsing.
type Options struct {
	SkipFiles  bool // do not decompress the embedded file system
	StrictKeys bool // fail on key codes that do not match the firmware checksum
}

// ROM is a parsed cheat device image.
type ROM struct {
	Layout    *Layout
	Encrypted bool // the source image was transport encrypted
	Scrambled bool // the source image was an address scrambled chip dump
	Title     string
	Version   model.Version

	Games       []model.Game
	KeyCodes    []model.KeyCode
	Preferences *model.Preferences // nil while the preferences are pristine
	Files       *fsblob.Blob       // nil for firmware without embedded file system

	logger   *log.Logger
	image    []byte // plaintext linear source image
	gamesEnd uint32
	keyCount int
	keyCache map[cic.Identity][]byte
}

// Parse decodes a ROM image. The buffer is not modified.
func Parse(logger *log.Logger, buf []byte, opts Options) (*ROM, error) {
	r := &ROM{
		logger:   logger,
		image:    bytes.Clone(buf),
		keyCache: map[cic.Identity][]byte{},
	}

	if err := r.linearize(); err != nil {
		return nil, err
	}

	layout, err := resolveLayout(r.image)
	if err != nil {
		return nil, err
	}
	r.Layout = layout
	logger.Debug("Resolved firmware layout", log.String("layout", layout.Name))

	if !opts.SkipFiles {
		if err := r.parseFiles(); err != nil {
			return nil, err
		}
	}
	if err := r.parseHeader(); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	r.Version = r.detectVersion()

	if err := r.parseGames(); err != nil {
		return nil, fmt.Errorf("parsing game list: %w", err)
	}
	if err := r.parseKeyCodes(opts.StrictKeys); err != nil {
		return nil, fmt.Errorf("parsing key codes: %w", err)
	}
	if err := r.parsePreferences(); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	return r, nil
}

// linearize undoes the transport encryption or the chip scrambling.
func (r *ROM) linearize() error {
	switch {
	case transport.IsEncrypted(r.image):
		if err := transport.Decrypt(r.image); err != nil {
			return fmt.Errorf("decrypting image: %w", err)
		}
		r.Encrypted = true

	case scrambler.IsScrambled(r.image):
		linear, err := scrambler.Unscramble(r.image)
		if err != nil {
			return fmt.Errorf("unscrambling image: %w", err)
		}
		r.image = linear
		r.Scrambled = true
	}

	if !transport.IsPlaintext(r.image) {
		return romerr.NewFormatError("cheat device", "missing image magic")
	}
	return nil
}

func (r *ROM) parseFiles() error {
	firmware := r.firmware()
	if !fsblob.IsCompressed(firmware) {
		return nil
	}

	blob, err := fsblob.Parse(firmware)
	if err != nil {
		return fmt.Errorf("parsing embedded files: %w", err)
	}
	r.Files = blob
	r.logger.Debug("Parsed embedded files",
		log.Int("files", len(blob.Files)),
		log.Hex("start", blob.Start))
	return nil
}

func (r *ROM) parseHeader() error {
	c := cursor.NewBE(r.image)
	if err := c.Seek(headerTitle); err != nil {
		return err
	}
	title, err := c.ReadCString(titleSize, false, cursor.Printable)
	if err != nil {
		return err
	}
	r.Title = title.Value
	return nil
}

// firmware returns the image part the key codes are computed over.
func (r *ROM) firmware() []byte {
	end := min(int(r.Layout.FirmwareEnd), len(r.image))
	return r.image[:end]
}

// Serialize encodes the model into a new plaintext linear image of the source
// image size. Callers re-apply encryption or scrambling as needed.
func (r *ROM) Serialize() ([]byte, error) {
	out := bytes.Clone(r.image)

	if err := r.writeKeyCodes(out); err != nil {
		return nil, fmt.Errorf("writing key codes: %w", err)
	}
	if err := r.writePreferences(out); err != nil {
		return nil, fmt.Errorf("writing preferences: %w", err)
	}
	if err := r.writeGames(out); err != nil {
		return nil, fmt.Errorf("writing game list: %w", err)
	}
	return out, nil
}

// Image returns the serialized image with the source encryption or
// scrambling applied again.
func (r *ROM) Image() ([]byte, error) {
	out, err := r.Serialize()
	if err != nil {
		return nil, err
	}

	switch {
	case r.Encrypted:
		if err := transport.Encrypt(out); err != nil {
			return nil, fmt.Errorf("encrypting image: %w", err)
		}
	case r.Scrambled:
		out, err = scrambler.Scramble(out)
		if err != nil {
			return nil, fmt.Errorf("scrambling image: %w", err)
		}
	}
	return out, nil
}
