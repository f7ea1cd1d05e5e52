package config

import (
	"testing"

	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func unsetPreferences() options.PreferenceFlags {
	return options.PreferenceFlags{
		Sound:             options.Unset,
		BackgroundPattern: options.Unset,
		BackgroundColor:   options.Unset,
		MenuScroll:        options.Unset,
		KeyCodeScroll:     options.Unset,
		SelectGame:        options.Unset,
		ActiveKeyCode:     options.Unset,
	}
}

func TestEdits(t *testing.T) {
	prefs := unsetPreferences()
	edits, err := Edits(prefs)
	assert.NoError(t, err)
	assert.Nil(t, edits.Sound)
	assert.Nil(t, edits.SelectedGame)

	prefs.Sound = 0
	prefs.BackgroundColor = 12
	prefs.SelectGame = 3
	edits, err = Edits(prefs)
	assert.NoError(t, err)
	assert.NotNil(t, edits.Sound)
	assert.Equal(t, uint8(0), *edits.Sound)
	assert.Equal(t, uint8(12), *edits.BackgroundColor)
	assert.Equal(t, 3, *edits.SelectedGame)
	assert.Nil(t, edits.ActiveKeyCode)

	prefs.MenuScroll = 300
	_, err = Edits(prefs)
	assert.ErrorContains(t, err, "menuscroll")
}

func TestContainerOptions(t *testing.T) {
	tests := []struct {
		operation string
		skipFiles bool
	}{
		{operation: options.Decode, skipFiles: false},
		{operation: options.Encode, skipFiles: false},
		{operation: options.Verify, skipFiles: false},
		{operation: options.Encrypt, skipFiles: true},
		{operation: options.Decrypt, skipFiles: true},
		{operation: options.Scramble, skipFiles: true},
		{operation: options.Unscramble, skipFiles: true},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			opts := options.Program{}
			opts.Operation = tt.operation
			opts.StrictKeys = true
			co := ContainerOptions(opts)
			assert.Equal(t, tt.skipFiles, co.SkipFiles)
			assert.True(t, co.StrictKeys)
		})
	}
}
