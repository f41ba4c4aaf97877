package segy

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

// IsEBCDIC guesses whether a textual header is EBCDIC encoded. Headers are
// mostly blanks, and the EBCDIC blank (0x40) is '@' in ASCII.
func IsEBCDIC(b []byte) bool {
	return bytes.Count(b, []byte{0x40}) > bytes.Count(b, []byte{0x20})
}

// DecodeText returns a textual header as a string, translating EBCDIC to
// UTF-8 when needed and dropping trailing NULs.
func DecodeText(b []byte) string {
	if IsEBCDIC(b) {
		if out, err := charmap.CodePage037.NewDecoder().Bytes(b); err == nil {
			b = out
		}
	}
	return string(bytes.TrimRight(b, "\x00"))
}

// EncodeEBCDIC converts ASCII text to EBCDIC. Characters without an EBCDIC
// equivalent become '?'.
func EncodeEBCDIC(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.CodePage037.EncodeRune(r)
		if !ok {
			b, _ = charmap.CodePage037.EncodeRune('?')
		}
		out = append(out, b)
	}
	return out
}
