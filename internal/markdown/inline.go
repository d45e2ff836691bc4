package markdown

import (
	"regexp"
	"strings"
)

var (
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	boldStarRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__(.+?)__`)
	inlineCodeRe     = regexp.MustCompile("`(.+?)`")
)

// renderInline escapes text and applies bold, italic and code spans,
// in that order.
func renderInline(text string) string {
	out := htmlEscaper.Replace(text)
	out = boldStarRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = boldUnderscoreRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = replaceSingle(out, '*', "<em>", "</em>")
	out = replaceSingle(out, '_', "<em>", "</em>")
	out = inlineCodeRe.ReplaceAllString(out, "<code>$1</code>")
	return out
}

// replaceSingle wraps spans delimited by a single marker byte. A delimiter
// never touches another marker, so doubled markers are left alone. Spans
// are non-empty and stay on one line; the shortest span wins.
func replaceSingle(s string, marker byte, open, close string) string {
	if strings.IndexByte(s, marker) < 0 {
		return s
	}

	isDelim := func(i int) bool {
		if s[i] != marker {
			return false
		}
		if i > 0 && s[i-1] == marker {
			return false
		}
		if i+1 < len(s) && s[i+1] == marker {
			return false
		}
		return true
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for i := 0; i < len(s); i++ {
		if !isDelim(i) {
			continue
		}
		end := -1
		for j := i + 1; j < len(s) && s[j] != '\n'; j++ {
			if j > i+1 && isDelim(j) {
				end = j
				break
			}
		}
		if end < 0 {
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(open)
		b.WriteString(s[i+1 : end])
		b.WriteString(close)
		last = end + 1
		i = end
	}
	b.WriteString(s[last:])
	return b.String()
}
