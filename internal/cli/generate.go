package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/chat"
	"github.com/takak2166/mailassist/internal/models"
)

const generatingMessage = "Generating response…"

type summarizeFlags struct {
	input  inputFlags
	output outputFlags
	attach string
	tasks  bool
	fixes  bool
}

func newSummarizeCommand(a *app) *cobra.Command {
	flags := &summarizeFlags{}

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize an email",
		Long: `Summarize an email read from stdin, a file or the clipboard.

Pasted HTML is converted to Markdown first. With --tasks the reply ends with
a numbered task list that "send" turns into subtasks.`,
		Example: `  mailassist summarize --paste --tasks --copy
  mailassist summarize -f message.txt --attach notes.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummarize(cmd, a, flags)
		},
	}

	flags.input.register(cmd, "email")
	flags.output.register(cmd, formatMarkdown)
	cmd.Flags().StringVar(&flags.attach, "attach", "", "summarize a .txt document along with the email")
	cmd.Flags().BoolVar(&flags.tasks, "tasks", false, "ask for a numbered task list")
	cmd.Flags().BoolVar(&flags.fixes, "fixes", false, "ask for a possible fix to the issue")

	return cmd
}

func runSummarize(cmd *cobra.Command, a *app, flags *summarizeFlags) error {
	if err := validateFormat(flags.output.format); err != nil {
		return err
	}

	email, err := a.read(flags.input)
	if err != nil {
		return err
	}

	opts := chat.SummaryOptions{Tasks: flags.tasks, Fixes: flags.fixes}
	if flags.attach != "" {
		document, err := assistant.ReadAttachment(flags.attach)
		if err != nil {
			return err
		}
		opts.Document = document
	}

	out, err := a.generate(cmd, generatingMessage, func(ctx context.Context, asst *assistant.Assistant) (models.OutputText, error) {
		return asst.Summarize(ctx, email, opts)
	})
	if err != nil {
		return err
	}
	return a.write(cmd, out, flags.output)
}

type draftFlags struct {
	input  inputFlags
	output outputFlags
	tone   string
	length string
}

func newDraftCommand(a *app) *cobra.Command {
	flags := &draftFlags{}

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft a reply to an email",
		Long: fmt.Sprintf(`Draft a reply to an email read from stdin, a file or the clipboard.

Tones: %s. Lengths: Short, Medium, Long.`, strings.Join(chat.Tones, ", ")),
		Example: `  mailassist draft --paste --tone Casual --length Short`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDraft(cmd, a, flags)
		},
	}

	flags.input.register(cmd, "email")
	flags.output.register(cmd, formatMarkdown)
	cmd.Flags().StringVarP(&flags.tone, "tone", "t", chat.Tones[0], "tone of the reply")
	cmd.Flags().StringVarP(&flags.length, "length", "l", "Medium", "length of the reply: Short, Medium, Long")

	return cmd
}

func runDraft(cmd *cobra.Command, a *app, flags *draftFlags) error {
	if err := validateFormat(flags.output.format); err != nil {
		return err
	}
	if _, ok := chat.DraftLength(flags.length); !ok {
		return fmt.Errorf("invalid length %q: must be Short, Medium or Long", flags.length)
	}

	email, err := a.read(flags.input)
	if err != nil {
		return err
	}

	out, err := a.generate(cmd, generatingMessage, func(ctx context.Context, asst *assistant.Assistant) (models.OutputText, error) {
		return asst.Draft(ctx, email, flags.tone, flags.length)
	})
	if err != nil {
		return err
	}
	return a.write(cmd, out, flags.output)
}

type invoiceFlags struct {
	input  inputFlags
	output outputFlags
	job    string
}

func newInvoiceCommand(a *app) *cobra.Command {
	flags := &invoiceFlags{}

	cmd := &cobra.Command{
		Use:     "invoice",
		Short:   "Write invoicing notes from job notes",
		Example: `  mailassist invoice --job "Site visit" -f notes.txt --copy`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInvoice(cmd, a, flags)
		},
	}

	flags.input.register(cmd, "job notes")
	flags.output.register(cmd, formatMarkdown)
	cmd.Flags().StringVarP(&flags.job, "job", "j", "", "job title")

	return cmd
}

func runInvoice(cmd *cobra.Command, a *app, flags *invoiceFlags) error {
	if err := validateFormat(flags.output.format); err != nil {
		return err
	}

	notes, err := a.read(flags.input)
	if err != nil {
		return err
	}

	out, err := a.generate(cmd, generatingMessage, func(ctx context.Context, asst *assistant.Assistant) (models.OutputText, error) {
		return asst.Invoice(ctx, strings.TrimSpace(flags.job), notes)
	})
	if err != nil {
		return err
	}
	return a.write(cmd, out, flags.output)
}

type promptFlags struct {
	input        inputFlags
	output       outputFlags
	includeEmail bool
}

func newPromptCommand(a *app) *cobra.Command {
	flags := &promptFlags{}

	cmd := &cobra.Command{
		Use:   "prompt <instruction>...",
		Short: "Send a free-form instruction",
		Long: `Send a free-form instruction to the model.

With --include-email the email is read from stdin, a file or the clipboard
and sent along as context.`,
		Example: `  mailassist prompt "List the dates mentioned" --include-email --paste`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, a, flags, strings.Join(args, " "))
		},
	}

	flags.input.register(cmd, "email")
	flags.output.register(cmd, formatMarkdown)
	cmd.Flags().BoolVarP(&flags.includeEmail, "include-email", "e", false, "send the email as context")

	return cmd
}

func runPrompt(cmd *cobra.Command, a *app, flags *promptFlags, instruction string) error {
	if err := validateFormat(flags.output.format); err != nil {
		return err
	}

	var email string
	if flags.includeEmail {
		var err error
		if email, err = a.read(flags.input); err != nil {
			return err
		}
	}

	out, err := a.generate(cmd, generatingMessage, func(ctx context.Context, asst *assistant.Assistant) (models.OutputText, error) {
		return asst.Custom(ctx, instruction, email, flags.includeEmail)
	})
	if err != nil {
		return err
	}
	return a.write(cmd, out, flags.output)
}
