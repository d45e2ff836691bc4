package clipboard

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodePayload turns raw clipboard bytes into text. Some producers put
// BOM-prefixed UTF-16 on the text/html target; everything else is treated as
// NUL-terminated UTF-8 with invalid sequences dropped.
func DecodePayload(raw []byte) string {
	if hasUTF16BOM(raw) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		if out, _, err := transform.Bytes(decoder, raw); err == nil {
			return cleanText(string(out))
		}
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return cleanText(string(raw))
}

func hasUTF16BOM(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	return (raw[0] == 0xFF && raw[1] == 0xFE) || (raw[0] == 0xFE && raw[1] == 0xFF)
}

func cleanText(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.ToValidUTF8(s, ""))
}
