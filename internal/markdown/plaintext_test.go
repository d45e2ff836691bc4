package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "paragraphs",
			html:     "<p>one</p>\n<p>two</p>",
			expected: "one\n\ntwo",
		},
		{
			name:     "line breaks",
			html:     "<p>a<br/>b<br />c</p>",
			expected: "a\nb\nc",
		},
		{
			name:     "heading then paragraph",
			html:     "<h2>Title</h2>\n<p>Body.</p>",
			expected: "Title\n\nBody.",
		},
		{
			name:     "unordered list",
			html:     "<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
			expected: "- a\n- b",
		},
		{
			name:     "ordered counters restart per list",
			html:     "<ol><li>a</li><li>b</li></ol><ol><li>c</li></ol>",
			expected: "1. a\n2. b\n\n1. c",
		},
		{
			name:     "inline tags keep their text",
			html:     "<p><strong>bold</strong> and <em>italic</em> <code>x</code></p>",
			expected: "bold and italic x",
		},
		{
			name:     "entities are decoded",
			html:     "<p>a &amp; b &lt; c</p>",
			expected: "a & b < c",
		},
		{
			name:     "unknown tags are transparent",
			html:     "<section><span>x</span> <b>y</b></section>",
			expected: "x y",
		},
		{
			name:     "list item outside a list",
			html:     "<li>stray</li>",
			expected: "stray",
		},
		{
			name:     "unbalanced markup does not panic",
			html:     "</ul></ol><p>text",
			expected: "text",
		},
		{
			name:     "empty",
			html:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainText(tt.html))
		})
	}
}

func TestSummaryToSubtasks(t *testing.T) {
	input := "Summarize this:\n\n1. Call client\n2. Send invoice"

	normalized := Normalize(input)
	assert.Equal(t, "Summarize this:\n1. Call client\n2. Send invoice", normalized)

	html := ToHTML(input)
	assert.Equal(t, "<p>Summarize this:</p>\n<ol>\n<li>Call client</li>\n<li>Send invoice</li>\n</ol>", html)

	plain := ToPlainText(input)
	assert.Equal(t, "Summarize this:\n\n1. Call client\n2. Send invoice", plain)

	assert.Equal(t, []string{"Call client", "Send invoice"}, NumberedItems(plain))
	assert.Equal(t, "Summarize this:", StripNumberedItems(plain))
}

func TestNumberedItems(t *testing.T) {
	assert.Empty(t, NumberedItems("no tasks here\n- bullet"))
	assert.Equal(t, []string{"first", "second"}, NumberedItems("1. first \ntext\n10. second"))
}
