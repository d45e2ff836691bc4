package markdown

import (
	"strings"
	"unicode"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines normalizes line endings and splits text into lines
func splitLines(text string) []string {
	return strings.Split(lineEndings.Replace(text), "\n")
}

// Normalize condenses blank-line runs while keeping the Markdown structure.
//
// A blank run between two lines survives as a single blank line only at
// paragraph→paragraph and list→paragraph boundaries. Blank runs before a
// list item always disappear. Fenced code blocks are copied verbatim apart
// from trailing whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var (
		normalized   []string
		blankRun     int
		lastNonBlank string
		haveLast     bool
		inCode       bool
	)

	for _, raw := range splitLines(text) {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)

		if isFence(raw) {
			if blankRun > 0 && len(normalized) > 0 {
				normalized = append(normalized, "")
			}
			blankRun = 0
			normalized = append(normalized, line)
			lastNonBlank, haveLast = line, true
			inCode = !inCode
			continue
		}

		if inCode {
			normalized = append(normalized, line)
			lastNonBlank, haveLast = line, true
			continue
		}

		if line == "" {
			blankRun++
			continue
		}

		if blankRun > 0 {
			if keepBlank(lastNonBlank, haveLast, line) {
				normalized = append(normalized, "")
			}
			blankRun = 0
		}
		normalized = append(normalized, line)
		lastNonBlank, haveLast = line, true
	}

	return strings.TrimSpace(strings.Join(normalized, "\n"))
}

// keepBlank decides whether a blank run before line collapses to one blank
// line (true) or to nothing (false).
func keepBlank(prev string, havePrev bool, line string) bool {
	if IsListItem(line) {
		return false
	}
	if !havePrev {
		return false
	}
	if !LooksLikeParagraph(line) {
		return false
	}
	return IsListItem(prev) || LooksLikeParagraph(prev)
}
