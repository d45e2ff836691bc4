// Package clipboard reads and writes the system clipboard with both plain
// text and the legacy "HTML Format" container, so pasting into rich-text
// targets keeps formatting while plain editors still get clean text.
package clipboard

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FormatName is the registered clipboard format carrying the container
	FormatName = "HTML Format"

	startFragment = "<!--StartFragment-->"
	endFragment   = "<!--EndFragment-->"

	offsetWidth = 10
)

// Offsets are byte positions into the encoded container
type Offsets struct {
	StartHTML     int
	EndHTML       int
	StartFragment int
	EndFragment   int
}

func header(o Offsets, sourceURL string) string {
	var b strings.Builder
	b.WriteString("Version:0.9\r\n")
	fmt.Fprintf(&b, "StartHTML:%0*d\r\n", offsetWidth, o.StartHTML)
	fmt.Fprintf(&b, "EndHTML:%0*d\r\n", offsetWidth, o.EndHTML)
	fmt.Fprintf(&b, "StartFragment:%0*d\r\n", offsetWidth, o.StartFragment)
	fmt.Fprintf(&b, "EndFragment:%0*d\r\n", offsetWidth, o.EndFragment)
	if sourceURL != "" {
		fmt.Fprintf(&b, "SourceURL:%s\r\n", sourceURL)
	}
	b.WriteString("\r\n")
	return b.String()
}

// Document wraps fragment into an HTML document carrying the fragment
// sentinels. Existing <html> documents are kept and only get the sentinels.
func Document(fragment string) string {
	body := fragment
	if !strings.Contains(asciiLower(body), "<html") {
		body = "<html><body>" + body + "</body></html>"
	}

	if !strings.Contains(body, startFragment) {
		at := 0
		if open := indexTag(asciiLower(body), "<body"); open >= 0 {
			if closeAt := strings.IndexByte(body[open:], '>'); closeAt >= 0 {
				at = open + closeAt + 1
			}
		}
		body = body[:at] + startFragment + body[at:]
	}

	if !strings.Contains(body, endFragment) {
		at := len(body)
		if closeBody := strings.LastIndex(asciiLower(body), "</body>"); closeBody >= 0 {
			at = closeBody
		}
		body = body[:at] + endFragment + body[at:]
	}

	return body
}

// asciiLower folds A-Z only, so byte offsets into the result are valid in s
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// indexTag returns the first index of the opening tag name in s, skipping
// longer names that share the prefix
func indexTag(s, tag string) int {
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], tag)
		if i < 0 {
			return -1
		}
		at := from + i
		end := at + len(tag)
		if end == len(s) {
			return -1
		}
		switch s[end] {
		case '>', '/', ' ', '\t', '\n', '\r', '\f':
			return at
		}
		from = end
	}
	return -1
}

// Encode builds the "HTML Format" container for fragment. The header has
// fixed-width offsets, so its length is known before the offsets are.
func Encode(fragment, sourceURL string) string {
	body := Document(fragment)

	startHTML := len(header(Offsets{}, sourceURL))
	o := Offsets{
		StartHTML:     startHTML,
		EndHTML:       startHTML + len(body),
		StartFragment: startHTML + strings.Index(body, startFragment) + len(startFragment),
		EndFragment:   startHTML + strings.Index(body, endFragment),
	}
	return header(o, sourceURL) + body
}

// Decode extracts the HTML fragment from a container. It prefers the
// sentinel comments and falls back to the header offsets. ok is false when
// no usable HTML was found.
func Decode(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	start := strings.Index(raw, startFragment)
	end := strings.Index(raw, endFragment)
	if start >= 0 && end >= 0 {
		start += len(startFragment)
		if start <= end {
			return nonEmpty(strings.TrimSpace(raw[start:end]))
		}
	}

	headers := parseHeader(raw)
	if from, to, ok := headerRange(headers, "StartFragment", "EndFragment", len(raw)); ok {
		return nonEmpty(strings.TrimSpace(raw[from:to]))
	}
	if from, to, ok := headerRange(headers, "StartHTML", "EndHTML", len(raw)); ok {
		return nonEmpty(strings.TrimSpace(raw[from:to]))
	}
	return "", false
}

// parseHeader reads "Key:Value" lines up to the first blank line
func parseHeader(raw string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}

// headerRange returns the [from, to) slice bounds named by two header keys,
// clamped to size.
func headerRange(headers map[string]string, fromKey, toKey string, size int) (int, int, bool) {
	from, err := strconv.Atoi(headers[fromKey])
	if err != nil {
		return 0, 0, false
	}
	to, err := strconv.Atoi(headers[toKey])
	if err != nil {
		return 0, 0, false
	}
	if from < 0 || to <= from || from >= size {
		return 0, 0, false
	}
	if to > size {
		to = size
	}
	return from, to, true
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}
