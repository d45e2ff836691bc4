package markdown

import (
	"regexp"
	"strings"
)

var numberedItemRe = regexp.MustCompile(`(?m)^\d+\.\s+(.+)`)

// ToHTML normalizes text, rewrites bullet glyphs and renders it as HTML
func ToHTML(text string) string {
	return Render(PrepareBullets(Normalize(text)))
}

// ToPlainText converts Markdown into plain text for the clipboard and API
// payloads.
func ToPlainText(text string) string {
	if text == "" {
		return ""
	}
	return PlainText(ToHTML(text))
}

// NumberedItems returns the content of "N. content" lines in order
func NumberedItems(plain string) []string {
	matches := numberedItemRe.FindAllStringSubmatch(plain, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, strings.TrimSpace(m[1]))
	}
	return items
}

// StripNumberedItems removes "N. content" lines, leaving the rest of the
// text trimmed.
func StripNumberedItems(plain string) string {
	return strings.TrimSpace(numberedItemRe.ReplaceAllString(plain, ""))
}
