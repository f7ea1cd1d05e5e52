package cursor

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const hexDigits = "0123456789ABCDEF"

// escapeLen is the length of an escape token like \x8E.
const escapeLen = 4

// Escaped is the text encoding of name fields. Bytes up to 0x7F map to themselves,
// bytes above 0x7F are represented by the escape token \xNN so that firmware text
// macros survive decoding and can be expanded by the container parser.
var Escaped encoding.Encoding = &escapeEncoding{}

type escapeEncoding struct{}

func (e *escapeEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &escapeDecoder{}}
}

func (e *escapeEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &escapeEncoder{}}
}

type escapeDecoder struct{ transform.NopResetter }

func (d *escapeDecoder) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for _, c := range src {
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		if len(dst)-nDst < escapeLen {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = '\\'
		dst[nDst+1] = 'x'
		dst[nDst+2] = hexDigits[c>>4]
		dst[nDst+3] = hexDigits[c&0x0F]
		nDst += escapeLen
		nSrc++
	}
	return nDst, nSrc, nil
}

type escapeEncoder struct{ transform.NopResetter }

func (e *escapeEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c == '\\' {
			if len(src)-nSrc < escapeLen && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if b, ok := parseEscape(src[nSrc:]); ok {
				if nDst >= len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				dst[nDst] = b
				nDst++
				nSrc += escapeLen
				continue
			}
		}

		if c >= utf8.RuneSelf {
			// non ASCII runes have no representation, replace them like an
			// encoding.Replacement would.
			_, size := utf8.DecodeRune(src[nSrc:])
			if size == 1 && !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			c = '?'
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc += size
			continue
		}

		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

// parseEscape decodes a \xNN token of a byte above 0x7F.
func parseEscape(b []byte) (byte, bool) {
	if len(b) < escapeLen || b[0] != '\\' || b[1] != 'x' {
		return 0, false
	}
	hi, ok1 := hexValue(b[2])
	lo, ok2 := hexValue(b[3])
	if !ok1 || !ok2 {
		return 0, false
	}
	v := hi<<4 | lo
	if v < utf8.RuneSelf {
		return 0, false
	}
	return v, true
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// EscapeToken returns the escape token for a byte above 0x7F.
func EscapeToken(b byte) string {
	return string([]byte{'\\', 'x', hexDigits[b>>4], hexDigits[b&0x0F]})
}

// DecodeString converts raw name bytes to text.
func DecodeString(raw []byte) string {
	s, err := Escaped.NewDecoder().Bytes(raw)
	if err != nil {
		// the decoder never fails on complete input
		return string(raw)
	}
	return string(s)
}

// EncodeString converts text back to raw name bytes.
func EncodeString(s string) []byte {
	b, err := Escaped.NewEncoder().String(s)
	if err != nil {
		return []byte(s)
	}
	return []byte(b)
}
