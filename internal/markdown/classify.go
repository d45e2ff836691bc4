// Package markdown normalizes model replies and converts them between the
// restricted Markdown subset the assistant uses, HTML and plain text.
package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// bulletGlyphs are the non-ASCII bullet characters treated as list markers
var bulletGlyphs = map[rune]bool{
	'•': true,
	'◦': true,
	'‣': true,
	'∙': true,
}

// followedBySpace reports whether s is empty or starts with whitespace
func followedBySpace(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// IsListItem reports whether line is a Markdown list item
func IsListItem(line string) bool {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	if stripped == "" {
		return false
	}

	marker, size := utf8.DecodeRuneInString(stripped)
	rest := stripped[size:]

	switch {
	case marker == '-' || marker == '*' || marker == '+':
		return followedBySpace(rest)
	case bulletGlyphs[marker]:
		return followedBySpace(rest)
	case isDigit(marker):
		i := 0
		for i < len(stripped) && isDigit(rune(stripped[i])) {
			i++
		}
		if i == len(stripped) || (stripped[i] != '.' && stripped[i] != ')') {
			return false
		}
		return followedBySpace(stripped[i+1:])
	}
	return false
}

// LooksLikeParagraph reports whether line reads like paragraph prose
// rather than a label, heading, quote, code or table row.
func LooksLikeParagraph(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	switch stripped[0] {
	case '#', '>', '`', '|':
		return false
	}
	if IsListItem(stripped) {
		return false
	}
	if strings.HasSuffix(stripped, ":") && utf8.RuneCountInString(stripped) <= 40 {
		return false
	}
	if len(strings.Fields(stripped)) >= 8 {
		return true
	}
	return strings.ContainsAny(stripped, ".!?")
}

// isFence reports whether line opens or closes a fenced code block
func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
