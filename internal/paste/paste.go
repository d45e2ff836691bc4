// Package paste turns rich clipboard content into Markdown input text.
package paste

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
)

// noiseSelectors are removed before conversion. Mail clients put styles,
// tracking pixels and hidden preheaders into the copied HTML.
var noiseSelectors = []string{
	"script",
	"style",
	"noscript",
	"template",
	"head",
	"meta",
	"link",
	"iframe",
	"object",
	"embed",
	"img[width='1']",
	"[hidden]",
	"[aria-hidden='true']",
	"[style*='display:none']",
	"[style*='display: none']",
}

// Clean removes noise elements from an HTML fragment and returns the body
// content.
func Clean(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse pasted HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	body := doc.Find("body").First()
	cleaned, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize pasted HTML: %w", err)
	}
	return strings.TrimSpace(cleaned), nil
}

// ToMarkdown converts a pasted HTML fragment into normalized Markdown
func ToMarkdown(fragment string) (string, error) {
	cleaned, err := Clean(fragment)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return "", nil
	}

	converted, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert pasted HTML to markdown: %w", err)
	}
	return markdown.Normalize(converted), nil
}

// Text returns the input text for a clip: Markdown converted from its HTML
// when present, otherwise its plain text.
func Text(clip models.Clip) (string, error) {
	if clip.HTML != "" {
		text, err := ToMarkdown(clip.HTML)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return strings.TrimSpace(clip.Text), nil
}
