package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe   = regexp.MustCompile(`^[-*]\s+(.*)$`)
	orderedRe  = regexp.MustCompile(`^(\d+)[.)]\s+(.*)$`)
	softBreaks = strings.NewReplacer("\n", "<br/>")
)

type listKind string

const (
	listNone      listKind = ""
	listUnordered listKind = "ul"
	listOrdered   listKind = "ol"
)

// renderer holds the single-pass block state
type renderer struct {
	blocks    []string
	paragraph []string
	list      listKind
}

// Render converts normalized Markdown into the restricted HTML subset:
// p, h1-h6, ul, ol, li, strong, em, code and br.
func Render(text string) string {
	r := &renderer{}
	for _, raw := range splitLines(text) {
		r.line(strings.TrimSpace(raw))
	}
	r.flushParagraph()
	r.closeList()
	return strings.Join(r.blocks, "\n")
}

func (r *renderer) line(line string) {
	if line == "" {
		r.flushParagraph()
		r.closeList()
		return
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		r.flushParagraph()
		r.closeList()
		level := len(m[1])
		r.blocks = append(r.blocks, fmt.Sprintf("<h%d>%s</h%d>", level, renderInline(strings.TrimSpace(m[2])), level))
		return
	}

	if m := bulletRe.FindStringSubmatch(line); m != nil {
		r.item(listUnordered, m[1])
		return
	}

	if m := orderedRe.FindStringSubmatch(line); m != nil {
		r.item(listOrdered, m[2])
		return
	}

	r.closeList()
	r.paragraph = append(r.paragraph, line)
}

func (r *renderer) item(kind listKind, content string) {
	r.flushParagraph()
	if r.list != kind {
		r.closeList()
		r.list = kind
		r.blocks = append(r.blocks, "<"+string(kind)+">")
	}
	r.blocks = append(r.blocks, "<li>"+renderInline(strings.TrimSpace(content))+"</li>")
}

func (r *renderer) flushParagraph() {
	if len(r.paragraph) == 0 {
		return
	}
	body := softBreaks.Replace(renderInline(strings.Join(r.paragraph, "\n")))
	r.blocks = append(r.blocks, "<p>"+body+"</p>")
	r.paragraph = nil
}

func (r *renderer) closeList() {
	if r.list == listNone {
		return
	}
	r.blocks = append(r.blocks, "</"+string(r.list)+">")
	r.list = listNone
}
