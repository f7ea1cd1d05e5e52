// Package codecipher implements the per code obfuscation of Xplorer64 cheat codes.
package codecipher

import (
	"fmt"
)

// CodeSize is the size of one N64 cheat code in bytes.
const CodeSize = 6

// Method identifies a code encryption variant.
type Method int

const (
	// None marks a plaintext code.
	None Method = iota
	// Method1 is the encryption of the earlier firmware releases.
	Method1
	// Method2 is the encryption of the later firmware releases.
	Method2
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Method1:
		return "method 1"
	case Method2:
		return "method 2"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

type key struct {
	xor    [CodeSize]byte
	offset byte
}

var keys = map[Method]key{
	Method1: {xor: [CodeSize]byte{0x68, 0x81, 0x82, 0x83, 0x84, 0x85}, offset: 0x2B},
	Method2: {xor: [CodeSize]byte{0x3C, 0x81, 0x82, 0x83, 0x84, 0x85}, offset: 0x3B},
}

// plainOpcodes contains the first bytes of known plaintext code types.
var plainOpcodes = map[byte]struct{}{
	0x00: {}, 0x2A: {}, 0x2C: {}, 0x3C: {}, 0x3F: {},
	0x50: {}, 0x80: {}, 0x81: {}, 0x88: {}, 0x89: {},
	0xA0: {}, 0xA1: {}, 0xB3: {}, 0xB4: {}, 0xD0: {},
	0xD1: {}, 0xD2: {}, 0xD3: {}, 0xDE: {}, 0xEE: {},
	0xF0: {}, 0xF1: {}, 0xFF: {},
}

// IsPlaintext returns whether the code starts with a known opcode.
func IsPlaintext(code []byte) bool {
	if len(code) == 0 {
		return false
	}
	_, ok := plainOpcodes[code[0]]
	return ok
}

// Encrypt returns the code encrypted with the given method.
func Encrypt(code []byte, method Method) ([]byte, error) {
	k, err := lookup(code, method)
	if err != nil {
		return nil, err
	}
	out := make([]byte, CodeSize)
	for i, b := range code {
		out[i] = (b ^ k.xor[i]) - k.offset
	}
	return out, nil
}

// Decrypt returns the plaintext of a code encrypted with the given method.
func Decrypt(code []byte, method Method) ([]byte, error) {
	k, err := lookup(code, method)
	if err != nil {
		return nil, err
	}
	out := make([]byte, CodeSize)
	for i, b := range code {
		out[i] = (b + k.offset) ^ k.xor[i]
	}
	return out, nil
}

// Detect returns the method the code is stored with. Plaintext is preferred,
// then the methods in release order. ok is false if no method produces a
// known opcode.
func Detect(code []byte) (Method, bool) {
	if IsPlaintext(code) {
		return None, true
	}
	for _, method := range []Method{Method1, Method2} {
		plain, err := Decrypt(code, method)
		if err == nil && IsPlaintext(plain) {
			return method, true
		}
	}
	return None, false
}

func lookup(code []byte, method Method) (key, error) {
	if len(code) != CodeSize {
		return key{}, fmt.Errorf("invalid code size %d", len(code))
	}
	if method == None {
		return key{}, nil
	}
	k, ok := keys[method]
	if !ok {
		return key{}, fmt.Errorf("unsupported code encryption %s", method)
	}
	return k, nil
}
