package clipboard

import (
	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
)

// Manager copies rendered output to the clipboard and reads pasted content,
// trying each transport in turn.
type Manager struct {
	transports []Transport
}

// NewManager creates a Manager over the given transports, best first
func NewManager(transports ...Transport) *Manager {
	return &Manager{transports: transports}
}

// Copy puts markdown on the clipboard as plain text plus the rendered HTML
// fragment. It reports whether any transport accepted the write.
func (m *Manager) Copy(text string) bool {
	plain := markdown.ToPlainText(text)
	fragment := markdown.ToHTML(text)

	for _, t := range m.transports {
		if t.Write(plain, fragment) {
			logger.Debug("Copied output to clipboard", map[string]interface{}{
				"transport": t.Name(),
			})
			return true
		}
	}
	logger.Debug("No clipboard transport accepted the write")
	return false
}

// Paste reads the clipboard. HTML is the decoded fragment when the
// container can be parsed, otherwise the raw HTML payload. Text is filled
// only when no HTML was found.
func (m *Manager) Paste() models.Clip {
	for _, t := range m.transports {
		raw, ok := t.ReadHTML()
		if !ok {
			continue
		}
		payload := DecodePayload(raw)
		if payload == "" {
			continue
		}
		if fragment, ok := Decode(payload); ok {
			return models.Clip{HTML: fragment}
		}
		return models.Clip{HTML: payload}
	}

	for _, t := range m.transports {
		if text, ok := t.ReadText(); ok {
			return models.Clip{Text: text}
		}
	}
	return models.Clip{}
}
