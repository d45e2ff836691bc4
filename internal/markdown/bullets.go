package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PrepareBullets rewrites lines that start with a bullet glyph (•, ◦, ‣, ∙)
// into "-" list items, keeping their indentation.
func PrepareBullets(text string) string {
	lines := splitLines(text)
	converted := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
		if stripped == "" {
			converted = append(converted, line)
			continue
		}

		marker, size := utf8.DecodeRuneInString(stripped)
		rest := stripped[size:]
		if !bulletGlyphs[marker] || !followedBySpace(rest) {
			converted = append(converted, line)
			continue
		}

		indent := line[:len(line)-len(stripped)]
		content := strings.TrimLeftFunc(rest, unicode.IsSpace)
		if content == "" {
			converted = append(converted, indent+"-")
		} else {
			converted = append(converted, indent+"- "+content)
		}
	}

	return strings.Join(converted, "\n")
}
