package container

import (
	"fmt"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/model"
)

// Edits are preference changes applied to a parsed ROM. Nil fields are left unchanged.
type Edits struct {
	Sound             *uint8
	BackgroundPattern *uint8
	BackgroundColor   *uint8
	MenuScroll        *uint8
	KeyCodeScroll     *uint8
	SelectedGame      *int
	ActiveKeyCode     *int
}

// ActiveGame returns the index of the active game or -1.
func (r *ROM) ActiveGame() int {
	for i, game := range r.Games {
		if game.Active {
			return i
		}
	}
	return -1
}

// SetActiveGame marks the game as active and all others as inactive.
func (r *ROM) SetActiveGame(index int) error {
	if index < 0 || index >= len(r.Games) {
		return fmt.Errorf("game index %d out of range, %d games", index, len(r.Games))
	}
	for i := range r.Games {
		r.Games[i].Active = i == index
	}
	if r.Layout.Preferences != 0 {
		r.ensurePreferences().SelectedGame = uint16(index)
	}
	return nil
}

// ensurePreferences returns the preferences, creating zero values for a
// pristine block.
func (r *ROM) ensurePreferences() *model.Preferences {
	if r.Preferences == nil {
		r.Preferences = &model.Preferences{SelectedGame: uint16(max(r.ActiveGame(), 0))}
	}
	return r.Preferences
}

// ActiveKeyCode returns the index of the active key code or -1.
func (r *ROM) ActiveKeyCode() int {
	for i, key := range r.KeyCodes {
		if key.Active {
			return i
		}
	}
	return -1
}

// SetActiveKeyCode marks the key code as active and all others as inactive.
func (r *ROM) SetActiveKeyCode(index int) error {
	if index < 0 || index >= len(r.KeyCodes) {
		return fmt.Errorf("key code index %d out of range, %d key codes", index, len(r.KeyCodes))
	}
	for i := range r.KeyCodes {
		r.KeyCodes[i].Active = i == index
	}
	return nil
}

// AddKeyCode appends an inactive key code for the boot chip, computed from the firmware.
func (r *ROM) AddKeyCode(name string, id cic.Identity) error {
	if r.Layout.KeyList == 0 {
		return fmt.Errorf("layout %s has no key code list", r.Layout.Name)
	}
	if len(r.KeyCodes) >= maxKeyCodes {
		return fmt.Errorf("key code list is full, maximum is %d", maxKeyCodes)
	}

	code, err := r.expectedKeyCode(id)
	if err != nil {
		return err
	}
	key := model.KeyCode{Name: name}
	copy(key.Code[:], code)
	r.KeyCodes = append(r.KeyCodes, key)
	return nil
}

// Apply applies the edits. Preferences of a pristine ROM are created with
// zero values first, selecting a game creates them as well.
func (r *ROM) Apply(edits Edits) error {
	if edits.SelectedGame != nil {
		if err := r.SetActiveGame(*edits.SelectedGame); err != nil {
			return err
		}
	}
	if edits.ActiveKeyCode != nil {
		if err := r.SetActiveKeyCode(*edits.ActiveKeyCode); err != nil {
			return err
		}
	}

	fields := []struct {
		value *uint8
		dst   func(p *model.Preferences) *uint8
	}{
		{edits.Sound, func(p *model.Preferences) *uint8 { return &p.Sound }},
		{edits.BackgroundPattern, func(p *model.Preferences) *uint8 { return &p.BackgroundPattern }},
		{edits.BackgroundColor, func(p *model.Preferences) *uint8 { return &p.BackgroundColor }},
		{edits.MenuScroll, func(p *model.Preferences) *uint8 { return &p.MenuScroll }},
		{edits.KeyCodeScroll, func(p *model.Preferences) *uint8 { return &p.KeyCodeScroll }},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		if r.Layout.Preferences == 0 {
			return fmt.Errorf("layout %s stores no preferences", r.Layout.Name)
		}
		*field.dst(r.ensurePreferences()) = *field.value
	}
	return nil
}
