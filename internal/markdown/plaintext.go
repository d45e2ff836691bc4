package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

type listState struct {
	ordered bool
	index   int
}

// plainTextWriter accumulates text chunks while walking HTML tokens
type plainTextWriter struct {
	parts []string
	lists []*listState
}

// PlainText converts HTML produced by Render into readable plain text.
// Paragraphs and headings are separated by a blank line, list items are
// prefixed with "- " or a per-list counter, inline tags only contribute
// their text. Unknown tags are transparent.
func PlainText(fragment string) string {
	w := &plainTextWriter{}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return w.text()
		case html.TextToken:
			w.data(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			w.start(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			w.end(string(name))
		}
	}
}

func (w *plainTextWriter) start(tag string) {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6":
		w.newline(1)
	case "br":
		w.parts = append(w.parts, "\n")
	case "ul":
		w.lists = append(w.lists, &listState{})
	case "ol":
		w.lists = append(w.lists, &listState{ordered: true})
	case "li":
		w.newline(1)
		if len(w.lists) == 0 {
			return
		}
		current := w.lists[len(w.lists)-1]
		if !current.ordered {
			w.parts = append(w.parts, "- ")
			return
		}
		current.index++
		w.parts = append(w.parts, strconv.Itoa(current.index)+". ")
	}
}

func (w *plainTextWriter) end(tag string) {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6":
		w.newline(2)
	case "li":
		w.newline(1)
	case "ul", "ol":
		if len(w.lists) > 0 {
			w.lists = w.lists[:len(w.lists)-1]
		}
		w.newline(2)
	}
}

func (w *plainTextWriter) data(text string) {
	if text == "" {
		return
	}
	if strings.TrimSpace(text) == "" {
		// whitespace between inline tags separates words; anything else is
		// markup layout
		if strings.ContainsAny(text, "\r\n") || w.atLineStart() {
			return
		}
	}
	w.parts = append(w.parts, text)
}

func (w *plainTextWriter) atLineStart() bool {
	for i := len(w.parts) - 1; i >= 0; i-- {
		if w.parts[i] == "" {
			continue
		}
		return strings.HasSuffix(w.parts[i], "\n")
	}
	return true
}

// newline makes sure the output ends with at least count newlines
func (w *plainTextWriter) newline(count int) {
	if len(w.parts) == 0 {
		return
	}
	trailing := 0
	for i := len(w.parts) - 1; i >= 0; i-- {
		chunk := w.parts[i]
		if chunk == "" {
			continue
		}
		trimmed := strings.TrimRight(chunk, "\n")
		trailing += len(chunk) - len(trimmed)
		if trimmed != "" || trailing >= count {
			break
		}
	}
	if missing := count - trailing; missing > 0 {
		w.parts = append(w.parts, strings.Repeat("\n", missing))
	}
}

// text joins the chunks, trims line ends and collapses blank runs
func (w *plainTextWriter) text() string {
	lines := splitLines(strings.Join(w.parts, ""))
	cleaned := make([]string, 0, len(lines))
	previousBlank := true
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line != "" {
			cleaned = append(cleaned, line)
			previousBlank = false
			continue
		}
		if !previousBlank {
			cleaned = append(cleaned, "")
		}
		previousBlank = true
	}
	for len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.Join(cleaned, "\n")
}
