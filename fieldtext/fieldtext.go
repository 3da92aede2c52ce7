// Package fieldtext is a narrow, reversible stand-in for the in-game
// message glyph codec spec.md §6 treats as an external collaborator. It
// is not a model of the real FF7 field-text glyph table; it only needs to
// satisfy encode(decode(bytes)) == bytes (spec.md §8) so the driver's
// extract/compile round trip is exact.
package fieldtext

import (
	"fmt"
	"strconv"
	"strings"
)

// terminator marks the end of an encoded message within a shared buffer,
// the same role FF7's own message encoding gives byte 0xFF.
const terminator = 0xFF

// Decode turns raw encoded bytes into a human-readable string: printable
// ASCII and '\n' pass through unchanged, a literal backslash byte becomes
// "\\", and every other byte becomes a "\xHH" escape. It stops at the
// first terminator byte (or the end of the slice) and reports how many
// bytes it consumed, including the terminator when present.
func Decode(encoded []byte) (string, int, error) {
	var b strings.Builder
	i := 0
	for i < len(encoded) {
		c := encoded[i]
		if c == terminator {
			i++
			break
		}
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n' || (c >= 0x20 && c <= 0x7e):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, `\x%02x`, c)
		}
		i++
	}
	return b.String(), i, nil
}

// Encode reverses Decode: printable text and '\n' are copied through as
// their own byte, "\\" becomes a literal backslash byte, "\xHH" escapes
// are turned back into the byte they name, and the result is terminated
// with the same marker Decode stops at. "\\" is checked before "\xHH" so
// the two escape forms never collide.
func Encode(s string) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\\' {
			out = append(out, '\\')
			i += 2
			continue
		}
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			n, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("fieldtext: invalid escape %q: %w", s[i:i+4], err)
			}
			out = append(out, byte(n))
			i += 4
			continue
		}
		out = append(out, s[i])
		i++
	}
	return append(out, terminator), nil
}
