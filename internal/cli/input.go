package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
	"github.com/takak2166/mailassist/internal/paste"
)

// Output formats for generated and rendered text
const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatPlain    = "plain"
)

var (
	errClipboardEmpty       = errors.New("clipboard is empty")
	errClipboardUnavailable = errors.New("clipboard is unavailable")
)

// inputFlags select where the message text comes from
type inputFlags struct {
	file  string
	paste bool
}

func (f *inputFlags) register(cmd *cobra.Command, what string) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the "+what+" from a file (default: stdin)")
	cmd.Flags().BoolVarP(&f.paste, "paste", "p", false, "read the "+what+" from the clipboard")
	cmd.MarkFlagsMutuallyExclusive("file", "paste")
}

// read returns the input text from the clipboard, a file or stdin
func (a *app) read(f inputFlags) (string, error) {
	switch {
	case f.paste:
		clip := a.newClipboard().Paste()
		if clip.Empty() {
			return "", errClipboardEmpty
		}
		return paste.Text(clip)
	case f.file != "" && f.file != "-":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}

// outputFlags control how a reply is printed
type outputFlags struct {
	format string
	copy   bool
}

func (f *outputFlags) register(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVar(&f.format, "format", defaultFormat, "output format: markdown, html, plain")
	cmd.Flags().BoolVarP(&f.copy, "copy", "c", false, "copy the result to the clipboard as rich text")
}

func validateFormat(format string) error {
	switch format {
	case formatMarkdown, formatHTML, formatPlain:
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be markdown, html or plain", format)
	}
}

// write prints out in the selected format and copies it when asked
func (a *app) write(cmd *cobra.Command, out models.OutputText, f outputFlags) error {
	var text string
	switch f.format {
	case formatHTML:
		text = out.RenderedHTML
		if text == "" {
			text = markdown.ToHTML(out.RawMarkdown)
		}
	case formatPlain:
		text = markdown.ToPlainText(out.RawMarkdown)
	default:
		text = out.RawMarkdown
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if f.copy {
		a.copy(cmd, out.RawMarkdown)
	}
	return nil
}

// copy puts text on the clipboard. Failure is reported, not returned.
func (a *app) copy(cmd *cobra.Command, text string) bool {
	if !a.newClipboard().Copy(text) {
		logger.Warn("Clipboard is unavailable, nothing was copied")
		return false
	}
	st := a.styles(cmd.ErrOrStderr())
	fmt.Fprintln(cmd.ErrOrStderr(), st.Success.Render("Copied to clipboard"))
	return true
}

// generate runs job in the background with a status line on stderr
func (a *app) generate(cmd *cobra.Command, message string, job func(ctx context.Context, asst *assistant.Assistant) (models.OutputText, error)) (models.OutputText, error) {
	if err := a.cfg.RequireChat(); err != nil {
		return models.OutputText{}, err
	}

	var recorder assistant.HistoryRecorder
	store, err := a.openHistory(a.cfg.HistoryPath)
	if err != nil {
		logger.Error("Failed to open history, the reply will not be recorded", err, map[string]interface{}{
			"path": a.cfg.HistoryPath,
		})
	} else {
		defer store.Close()
		recorder = store
	}

	asst := assistant.New(a.newGenerator(a.cfg), recorder, a.cfg.Model)

	errOut := cmd.ErrOrStderr()
	st := a.styles(errOut)
	indicator := assistant.NewIndicator(func(busy bool, msg string) {
		if busy {
			fmt.Fprintln(errOut, st.Status.Render(msg))
		}
	})

	result := <-assistant.Dispatch(cmd.Context(), indicator, message, func(ctx context.Context) (models.OutputText, error) {
		return job(ctx, asst)
	})
	return result.Value, result.Err
}
