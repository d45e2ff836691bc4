// Package assistant ties the chat provider, the history log and the task
// tracker together for the commands.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/takak2166/mailassist/internal/chat"
	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
)

// Modes recorded in the history log
const (
	ModeSummarize = "summarize"
	ModeDraft     = "draft"
	ModeInvoice   = "invoice"
	ModeCustom    = "custom"
)

// ErrEmptyInput is returned when there is no text to send to the model
var ErrEmptyInput = errors.New("no input text")

// HistoryRecorder stores generated outputs
type HistoryRecorder interface {
	Save(ctx context.Context, mode, tone, input, output string) (int64, error)
}

// Assistant generates replies and records them
type Assistant struct {
	generator chat.Generator
	history   HistoryRecorder
	model     string
}

// New creates an Assistant. history may be nil to skip recording.
func New(generator chat.Generator, history HistoryRecorder, model string) *Assistant {
	return &Assistant{
		generator: generator,
		history:   history,
		model:     model,
	}
}

// Model returns the chat model used for requests
func (a *Assistant) Model() string {
	return a.model
}

// Generate sends prompt to the model and returns the normalized reply with
// its rendered HTML. The prompt is recorded as the history input.
func (a *Assistant) Generate(ctx context.Context, mode, tone, prompt string) (models.OutputText, error) {
	if strings.TrimSpace(prompt) == "" {
		return models.OutputText{}, ErrEmptyInput
	}

	logger.Info("Generating response", map[string]interface{}{
		"mode":  mode,
		"model": a.model,
	})

	reply, err := a.generator.Generate(ctx, a.model, prompt)
	if err != nil {
		return models.OutputText{}, err
	}

	if a.history != nil {
		if _, err := a.history.Save(ctx, mode, tone, prompt, reply); err != nil {
			logger.Error("Failed to save history entry", err, map[string]interface{}{
				"mode": mode,
			})
		}
	}

	return Render(reply), nil
}

// Render normalizes Markdown and renders it for display
func Render(text string) models.OutputText {
	raw := markdown.Normalize(text)
	return models.OutputText{
		RawMarkdown:  raw,
		RenderedHTML: markdown.ToHTML(raw),
	}
}

// Summarize builds the summary prompt for email and generates the reply
func (a *Assistant) Summarize(ctx context.Context, email string, opts chat.SummaryOptions) (models.OutputText, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.OutputText{}, ErrEmptyInput
	}
	return a.Generate(ctx, ModeSummarize, "", chat.SummarizePrompt(email, opts))
}

// Draft generates a reply to email in the given tone and length label
func (a *Assistant) Draft(ctx context.Context, email, tone, length string) (models.OutputText, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.OutputText{}, ErrEmptyInput
	}
	phrase, ok := chat.DraftLength(length)
	if !ok {
		return models.OutputText{}, fmt.Errorf("unknown draft length %q", length)
	}
	return a.Generate(ctx, ModeDraft, tone, chat.DraftPrompt(email, tone, phrase))
}

// Invoice generates invoicing notes for a job
func (a *Assistant) Invoice(ctx context.Context, jobTitle, notes string) (models.OutputText, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return models.OutputText{}, ErrEmptyInput
	}
	return a.Generate(ctx, ModeInvoice, "", chat.InvoicePrompt(jobTitle, notes))
}

// Custom sends a free-form instruction, optionally with email as context
func (a *Assistant) Custom(ctx context.Context, instruction, email string, includeEmail bool) (models.OutputText, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return models.OutputText{}, ErrEmptyInput
	}
	return a.Generate(ctx, ModeCustom, "", chat.CustomPrompt(instruction, strings.TrimSpace(email), includeEmail))
}
