package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsListItem(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"- a", true},
		{"-", true},
		{"-a", false},
		{"* starred", true},
		{"+ plus", true},
		{"• glyph", true},
		{"•", true},
		{"•glued", false},
		{"◦ hollow", true},
		{"1. one", true},
		{"12) twelve", true},
		{"1.", true},
		{"1.x", false},
		{"1", false},
		{"   - nested", true},
		{"", false},
		{"# heading", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsListItem(tt.line))
		})
	}
}

func TestLooksLikeParagraph(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"sentence", "This is a sentence.", true},
		{"eight words", "one two three four five six seven eight", true},
		{"single word", "hello", false},
		{"short label", "Short label:", false},
		{"long label", "A very long label that goes beyond forty characters:", true},
		{"heading", "# Heading.", false},
		{"quote", "> quoted text.", false},
		{"code", "`code`.", false},
		{"table", "| a | b |.", false},
		{"list item", "- item.", false},
		{"blank", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeParagraph(tt.line))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "paragraph blank run collapses to one",
			input:    "First line of text.\n\n\n\nSecond line here.",
			expected: "First line of text.\n\nSecond line here.",
		},
		{
			name:     "list items are never separated",
			input:    "- a\n\n- b",
			expected: "- a\n- b",
		},
		{
			name:     "list to paragraph keeps a blank line",
			input:    "- a\n\n\nThis is prose.",
			expected: "- a\n\nThis is prose.",
		},
		{
			name:     "label before list loses the blank line",
			input:    "Summarize this:\n\n1. Call client\n2. Send invoice",
			expected: "Summarize this:\n1. Call client\n2. Send invoice",
		},
		{
			name:     "heading to paragraph collapses",
			input:    "# Title\n\nSome text.",
			expected: "# Title\nSome text.",
		},
		{
			name:     "line endings",
			input:    "Hello there.\r\n\r\nBye now.\r\n",
			expected: "Hello there.\n\nBye now.",
		},
		{
			name:     "old mac line endings",
			input:    "Hello there.\r\rBye now.",
			expected: "Hello there.\n\nBye now.",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "\n\n   Hello world.   \n\n",
			expected: "Hello world.",
		},
		{
			name:     "code block kept verbatim",
			input:    "Intro.\n\n```\nx\n\n\ny\n```\n\nAfter.",
			expected: "Intro.\n\n```\nx\n\n\ny\n```\nAfter.",
		},
		{
			name:     "unicode bullets count as list items",
			input:    "• first\n\n• second",
			expected: "• first\n• second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"A\n\n\n\nB",
		"First line of text.\n\n\n\nSecond line here.",
		"- a\n\n- b\n\n\nThen a sentence follows.\n\n\nAnd another one!",
		"Summarize this:\n\n1. Call client\n2. Send invoice",
		"```go\nfunc main() {}\n\n\n```\n\n\ntext.",
		"   \n\t- indented item\n\n\n   \n",
		"**Invoicing notes:**\n\n**Job**\n\nDid the thing.\n\n**12/03/2024**\n\n• a\n\n• b",
		"unterminated ```\n\nfence?\n\n",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestPrepareBullets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"glyphs", "• first\n• second", "- first\n- second"},
		{"keeps indentation", "  ◦ nested", "  - nested"},
		{"bare glyph", "‣", "-"},
		{"glued glyph untouched", "∙glued", "∙glued"},
		{"plain untouched", "plain text\n\n- dash", "plain text\n\n- dash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrepareBullets(tt.input))
		})
	}
}
