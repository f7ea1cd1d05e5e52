package container

import (
	"strings"

	"github.com/retroenv/retrocheat/internal/cursor"
)

// tokens are single bytes that the menu expands to frequent words.
var tokens = []struct {
	value byte
	word  string
}{
	{0x80, "Infinite "},
	{0x81, "Unlimited "},
	{0x82, "Have "},
	{0x83, "Energy"},
	{0x84, "Lives"},
	{0x85, "Health"},
	{0x86, "Ammo"},
	{0x87, "Time"},
}

func tokenWord(b byte) (string, bool) {
	for _, t := range tokens {
		if t.value == b {
			return t.word, true
		}
	}
	return "", false
}

// expandTokens decodes name bytes, replacing tokens by their words.
func expandTokens(raw []byte) string {
	var sb strings.Builder
	start := 0
	for i, b := range raw {
		word, ok := tokenWord(b)
		if !ok {
			continue
		}
		sb.WriteString(cursor.DecodeString(raw[start:i]))
		sb.WriteString(word)
		start = i + 1
	}
	sb.WriteString(cursor.DecodeString(raw[start:]))
	return sb.String()
}

// collapseTokens encodes a name, replacing words by their tokens.
func collapseTokens(s string) []byte {
	var out []byte
	start := 0
	for i := 0; i < len(s); {
		value, word, ok := matchToken(s[i:])
		if !ok {
			i++
			continue
		}
		out = append(out, cursor.EncodeString(s[start:i])...)
		out = append(out, value)
		i += len(word)
		start = i
	}
	return append(out, cursor.EncodeString(s[start:])...)
}

func matchToken(s string) (byte, string, bool) {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.word) {
			return t.value, t.word, true
		}
	}
	return 0, "", false
}
