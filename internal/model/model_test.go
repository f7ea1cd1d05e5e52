package model

import (
	"testing"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		err      bool
	}{
		{input: "8001FCB0 0063", expected: "8001FCB0 0063"},
		{input: "d00f4ac10001", expected: "D00F4AC1 0001"},
		{input: "8001FCB0 00", err: true},
		{input: "8001FCB0 00XY", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, err := ParseCode(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, code.String())
		})
	}
}

func TestKeyCodeIdentity(t *testing.T) {
	key := KeyCode{
		Name: "Mario World 64 & Others",
		Code: [cic.KeyCodeSize]byte{0, 0, 0, 0, 0, 0, 0, 0, 0x80, 0x18, 0x00, 0x00, 0x00},
	}
	id, ok := key.Identity()
	assert.True(t, ok)
	assert.Equal(t, cic.CIC6105, id)
	assert.Equal(t, "00000000000000008018000000", key.String())
}

func TestVersionSortKey(t *testing.T) {
	april, err := ParseBuild("10:51 Apr 20 00")
	assert.NoError(t, err)
	may, err := ParseBuild("09:05  May 02 00")
	assert.NoError(t, err)

	older := Version{Brand: "GameShark", Number: "3.30", Build: april}
	newer := Version{Brand: "GameShark", Number: "3.30", Build: may}
	assert.True(t, older.SortKey() < newer.SortKey())

	v2 := Version{Brand: "GameShark", Number: "2.50"}
	assert.True(t, v2.SortKey() < older.SortKey())
	assert.Equal(t, "GameShark v3.30 (10:51 Apr 20 00)", older.String())

	_, err = ParseBuild("garbage")
	assert.Error(t, err)
}
