package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/model"
	"github.com/retroenv/retrocheat/internal/romerr"
	"github.com/retroenv/retrogolib/log"
)

const (
	maxKeyCodes    = 8
	keyEntrySize   = 0x30
	keyNameOffset  = cic.KeyCodeSize
	keyNameSize    = keyEntrySize - keyNameOffset
	keyNameMaxSize = keyNameSize - 1
)

func (r *ROM) parseKeyCodes(strict bool) error {
	if r.Layout.KeyList == 0 {
		return nil
	}

	c := cursor.NewBE(r.image)
	if err := c.Seek(r.Layout.KeyList); err != nil {
		return err
	}
	count, err := c.ReadU32()
	if err != nil {
		return err
	}
	if count > maxKeyCodes {
		return &romerr.IntegrityError{
			Offset:   r.Layout.KeyList,
			What:     "key code count",
			Expected: maxKeyCodes,
			Found:    uint64(count),
		}
	}

	active := r.image[headerActiveKey : headerActiveKey+cic.KeyCodeSize]
	activeIndex := -1

	r.KeyCodes = make([]model.KeyCode, 0, count)
	for i := range int(count) {
		offset := c.Pos()
		key, err := readKeyCode(c)
		if err != nil {
			return fmt.Errorf("key code %d: %w", i, err)
		}
		if err := r.validateKeyCode(key, offset, strict); err != nil {
			return err
		}

		if activeIndex < 0 && bytes.Equal(key.Code[:], active) {
			key.Active = true
			activeIndex = i
		}
		r.KeyCodes = append(r.KeyCodes, key)
	}
	r.keyCount = int(count)

	if activeIndex < 0 && count > 0 {
		r.logger.Warn("No key code matches the active key code of the header")
	}
	return nil
}

func readKeyCode(c *cursor.Cursor) (model.KeyCode, error) {
	code, err := c.ReadBytes(cic.KeyCodeSize)
	if err != nil {
		return model.KeyCode{}, err
	}
	name, err := c.ReadCString(keyNameSize, false, cursor.Printable)
	if err != nil {
		return model.KeyCode{}, err
	}

	key := model.KeyCode{Name: name.Value}
	copy(key.Code[:], code)
	return key, nil
}

// validateKeyCode compares a key code against the one computed from the firmware.
func (r *ROM) validateKeyCode(key model.KeyCode, offset uint32, strict bool) error {
	id, ok := key.Identity()
	if !ok {
		r.logger.Warn("Key code has an unknown entry point",
			log.String("name", key.Name),
			log.Hex("offset", offset))
		return nil
	}

	expected, err := r.expectedKeyCode(id)
	if err != nil {
		return err
	}
	if bytes.Equal(expected, key.Code[:]) {
		return nil
	}

	ierr := &romerr.IntegrityError{
		Offset:   offset,
		What:     "key code checksum",
		Expected: binary.BigEndian.Uint64(expected),
		Found:    binary.BigEndian.Uint64(key.Code[:]),
	}
	if strict {
		return ierr
	}
	r.logger.Warn("Key code does not match the firmware checksum",
		log.String("name", key.Name),
		log.Err(ierr))
	return nil
}

// expectedKeyCode returns the key code of the firmware for the boot chip.
func (r *ROM) expectedKeyCode(id cic.Identity) ([]byte, error) {
	if key, ok := r.keyCache[id]; ok {
		return key, nil
	}
	key, err := cic.KeyCode(r.firmware(), id)
	if err != nil {
		return nil, fmt.Errorf("computing key code: %w", err)
	}
	r.keyCache[id] = key
	return key, nil
}

// keyCodeBytes returns the recomputed key code, or the stored one for
// unknown boot chips.
func (r *ROM) keyCodeBytes(key model.KeyCode) ([]byte, error) {
	id, ok := key.Identity()
	if !ok {
		return key.Code[:], nil
	}
	return r.expectedKeyCode(id)
}

// writeKeyCodes writes the key list and the active key code snapshot.
// Entries freed by a shorter list are filled with 0xFF.
func (r *ROM) writeKeyCodes(out []byte) error {
	if r.Layout.KeyList == 0 {
		if len(r.KeyCodes) > 0 {
			return fmt.Errorf("layout %s has no key code list", r.Layout.Name)
		}
		return nil
	}
	if len(r.KeyCodes) > maxKeyCodes {
		return fmt.Errorf("%d key codes exceed the maximum of %d", len(r.KeyCodes), maxKeyCodes)
	}

	c := cursor.NewBE(out)
	if err := c.Seek(r.Layout.KeyList); err != nil {
		return err
	}
	if err := c.WriteU32(uint32(len(r.KeyCodes))); err != nil {
		return err
	}

	var active []byte
	for _, key := range r.KeyCodes {
		code, err := r.keyCodeBytes(key)
		if err != nil {
			return err
		}
		name := cursor.EncodeString(key.Name)
		if len(name) > keyNameMaxSize {
			return fmt.Errorf("key code name '%s' exceeds %d bytes", key.Name, keyNameMaxSize)
		}

		if err := c.WriteBytes(code); err != nil {
			return err
		}
		if err := c.WriteFixedString(name, keyNameSize); err != nil {
			return err
		}
		if key.Active && active == nil {
			active = code
		}
	}

	for i := len(r.KeyCodes); i < r.keyCount; i++ {
		if err := c.Fill(0xFF, keyEntrySize); err != nil {
			return err
		}
	}

	if active != nil {
		copy(out[headerActiveKey:], active)
	}
	return nil
}
