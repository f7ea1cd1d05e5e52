package container

import (
	"bytes"

	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/model"
	"github.com/retroenv/retrogolib/log"
)

const preferencesSize = 8

func (r *ROM) parsePreferences() error {
	if r.Layout.Preferences == 0 {
		return nil
	}

	c := cursor.NewBE(r.image)
	if err := c.Seek(r.Layout.Preferences); err != nil {
		return err
	}
	raw, err := c.Peek(preferencesSize)
	if err != nil {
		return err
	}
	if bytes.Equal(raw, bytes.Repeat([]byte{0xFF}, preferencesSize)) {
		return nil
	}

	var p model.Preferences
	fields := []*uint8{&p.Sound, &p.BackgroundPattern, &p.BackgroundColor,
		&p.MenuScroll, &p.KeyCodeScroll, &p.Reserved}
	for _, field := range fields {
		if *field, err = c.ReadU8(); err != nil {
			return err
		}
	}
	if p.SelectedGame, err = c.ReadU16(); err != nil {
		return err
	}
	r.Preferences = &p

	if int(p.SelectedGame) < len(r.Games) {
		r.Games[p.SelectedGame].Active = true
	} else {
		r.logger.Warn("Selected game is out of range",
			log.Int("selected", int(p.SelectedGame)),
			log.Int("games", len(r.Games)))
	}
	return nil
}

// writePreferences writes the preferences or the pristine block. The selected
// game mirrors the active game.
func (r *ROM) writePreferences(out []byte) error {
	if r.Layout.Preferences == 0 {
		return nil
	}

	c := cursor.NewBE(out)
	if err := c.Seek(r.Layout.Preferences); err != nil {
		return err
	}
	if r.Preferences == nil {
		return c.Fill(0xFF, preferencesSize)
	}

	p := *r.Preferences
	if index := r.ActiveGame(); index >= 0 {
		p.SelectedGame = uint16(index)
	}

	for _, v := range []uint8{p.Sound, p.BackgroundPattern, p.BackgroundColor,
		p.MenuScroll, p.KeyCodeScroll, p.Reserved} {
		if err := c.WriteU8(v); err != nil {
			return err
		}
	}
	return c.WriteU16(p.SelectedGame)
}
