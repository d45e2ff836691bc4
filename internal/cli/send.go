package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/logger"
)

const dueLayout = "2006-01-02"

type sendFlags struct {
	summary   inputFlags
	historyID int64
	email     string
	name      string
	assignee  string
	priority  string
	due       string
}

func newSendCommand(a *app) *cobra.Command {
	flags := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Create a Notion task from a summary",
		Long: `Create a task in the Notion database from a summary.

The summary without its numbered items becomes the task body, the original
email is added as a comment, and each numbered item becomes a subtask in
order. The summary is read from stdin, a file, the clipboard or a history
entry.`,
		Example: `  mailassist summarize -f mail.txt --tasks | mailassist send --name "Follow up" --email mail.txt
  mailassist send --history 12 --name "Invoice Acme" --priority High --due 2026-11-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, a, flags)
		},
	}

	flags.summary.register(cmd, "summary")
	cmd.Flags().Int64Var(&flags.historyID, "history", 0, "use the reply of a history entry as the summary")
	cmd.Flags().StringVar(&flags.email, "email", "", "file with the original email, added as a comment")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "task name (required)")
	cmd.Flags().StringVar(&flags.assignee, "assignee", "", "assignee label from the settings file")
	cmd.Flags().StringVar(&flags.priority, "priority", "", "priority label")
	cmd.Flags().StringVar(&flags.due, "due", "", "due date as YYYY-MM-DD")
	cmd.MarkFlagsMutuallyExclusive("history", "file")
	cmd.MarkFlagsMutuallyExclusive("history", "paste")

	return cmd
}

func runSend(cmd *cobra.Command, a *app, flags *sendFlags) error {
	opts := assistant.TaskOptions{
		Name:     flags.name,
		Assignee: flags.assignee,
		Priority: flags.priority,
	}
	if flags.due != "" {
		due, err := time.ParseInLocation(dueLayout, flags.due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", flags.due)
		}
		opts.DueOn = &due
	}

	summary, err := readSummary(cmd, a, flags)
	if err != nil {
		return err
	}

	var email string
	if flags.email != "" {
		data, err := os.ReadFile(flags.email)
		if err != nil {
			return fmt.Errorf("failed to read email file: %w", err)
		}
		email = string(data)
	}

	req, err := assistant.BuildTaskRequest(summary, email, opts, a.cfg.Settings.Tasks)
	if err != nil {
		return err
	}

	if err := a.cfg.RequireTracker(); err != nil {
		return err
	}
	tracker, err := a.newTracker(a.cfg)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	st := a.styles(errOut)
	indicator := assistant.NewIndicator(func(busy bool, msg string) {
		if busy {
			fmt.Fprintln(errOut, st.Status.Render(msg))
		}
	})

	result := <-assistant.Dispatch(cmd.Context(), indicator, "Creating task…", func(ctx context.Context) (assistant.SendResult, error) {
		return assistant.SendToTracker(ctx, tracker, req)
	})
	if result.Err != nil {
		if result.Value.TaskID != "" {
			logger.Warn("Task was created but not completed", map[string]interface{}{
				"task":     result.Value.TaskID,
				"subtasks": result.Value.Subtasks,
			})
		}
		return result.Err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d subtasks)\n",
		st.Success.Render("Created task"), result.Value.TaskID, result.Value.Subtasks)
	return err
}

func readSummary(cmd *cobra.Command, a *app, flags *sendFlags) (string, error) {
	if flags.historyID != 0 {
		entry, err := loadEntry(cmd, a, flags.historyID)
		if err != nil {
			return "", err
		}
		return entry.Output, nil
	}
	return a.read(flags.summary)
}
