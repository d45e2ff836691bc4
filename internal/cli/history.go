package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/history"
	"github.com/takak2166/mailassist/internal/models"
)

const previewLength = 60

func newHistoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded replies",
	}

	cmd.AddCommand(newHistoryListCommand(a))
	cmd.AddCommand(newHistoryShowCommand(a))

	return cmd
}

func newHistoryListCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent replies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No history yet")
				return err
			}

			out := cmd.OutOrStdout()
			writeEntries(out, a.styles(out), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of entries to list")

	return cmd
}

func writeEntries(w io.Writer, st styles, entries []models.HistoryEntry) {
	for _, entry := range entries {
		label := entry.Mode
		if entry.Tone != "" {
			label += "/" + entry.Tone
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			st.Heading.Render(fmt.Sprintf("%4d", entry.ID)),
			st.Dim.Render(entry.Timestamp.Format("2006-01-02 15:04")),
			st.Mode.Render(label),
			preview(entry.Output),
		)
	}
}

// preview is the first line of text cut to previewLength runes
func preview(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	runes := []rune(line)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "…"
	}
	return line
}

type historyShowFlags struct {
	output outputFlags
	input  bool
}

func newHistoryShowCommand(a *app) *cobra.Command {
	flags := &historyShowFlags{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(flags.output.format); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid history id %q: %w", args[0], err)
			}

			entry, err := loadEntry(cmd, a, id)
			if err != nil {
				return err
			}

			if flags.input {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), entry.Input)
				return err
			}
			return a.write(cmd, assistant.Render(entry.Output), flags.output)
		},
	}

	flags.output.register(cmd, formatMarkdown)
	cmd.Flags().BoolVar(&flags.input, "input", false, "print the prompt that was sent instead of the reply")

	return cmd
}

func loadEntry(cmd *cobra.Command, a *app, id int64) (models.HistoryEntry, error) {
	store, err := a.openHistory(a.cfg.HistoryPath)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), id)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to load history entry %d: %w", id, err)
	}
	return entry, nil
}
