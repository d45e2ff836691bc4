package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/paste"
)

type renderFlags struct {
	input  inputFlags
	output outputFlags
}

func newRenderCommand(a *app) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Normalize Markdown and render it as HTML or plain text",
		Long: `Normalize Markdown read from stdin, a file or the clipboard and print it
rendered. No chat request is made.`,
		Example: `  mailassist render -f reply.md --format plain`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(flags.output.format); err != nil {
				return err
			}
			text, err := a.read(flags.input)
			if err != nil {
				return err
			}
			return a.write(cmd, assistant.Render(text), flags.output)
		},
	}

	flags.input.register(cmd, "Markdown")
	flags.output.register(cmd, formatHTML)

	return cmd
}

func newCopyCommand(a *app) *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy Markdown to the clipboard as rich text",
		Long: `Copy Markdown read from stdin or a file to the clipboard. Rich-text
targets receive rendered HTML and plain-text targets receive the plain
rendering.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.read(input)
			if err != nil {
				return err
			}
			out := assistant.Render(text)
			if out.RawMarkdown == "" {
				return assistant.ErrEmptyInput
			}
			if !a.copy(cmd, out.RawMarkdown) {
				return errClipboardUnavailable
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.file, "file", "f", "", "read the Markdown from a file (default: stdin)")

	return cmd
}

func newPasteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Print the clipboard as Markdown",
		Long: `Print the clipboard contents. Rich text is cleaned and converted to
Markdown; plain text is printed as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clip := a.newClipboard().Paste()
			if clip.Empty() {
				return errClipboardEmpty
			}
			text, err := paste.Text(clip)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
