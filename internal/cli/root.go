// Package cli provides the Cobra command structure for mailassist.
package cli

import (
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/chat"
	"github.com/takak2166/mailassist/internal/clipboard"
	"github.com/takak2166/mailassist/internal/config"
	"github.com/takak2166/mailassist/internal/history"
	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/notion"
)

// app carries the loaded configuration and the collaborators the commands
// use. Tests replace the constructors.
type app struct {
	envFile  string
	logLevel string
	color    string
	model    string

	cfg *config.Config

	stdin        io.Reader
	newGenerator func(cfg *config.Config) chat.Generator
	newTracker   func(cfg *config.Config) (assistant.Tracker, error)
	openHistory  func(path string) (*history.Store, error)
	newClipboard func() *clipboard.Manager
}

func newApp() *app {
	return &app{
		stdin: os.Stdin,
		newGenerator: func(cfg *config.Config) chat.Generator {
			return chat.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL)
		},
		newTracker: func(cfg *config.Config) (assistant.Tracker, error) {
			return notion.New(cfg.NotionKey, cfg.NotionDatabaseID, cfg.Settings.Notion)
		},
		openHistory: history.Open,
		newClipboard: func() *clipboard.Manager {
			return clipboard.NewManager(clipboard.Detect()...)
		},
	}
}

// NewRootCommand creates the root mailassist command with all subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mailassist",
		Short: "Summarize and draft email with a chat model",
		Long: `mailassist sends email or invoice text to a chat-completion model for
summaries, drafted replies and invoice notes. Replies are Markdown; they can
be rendered, copied to the clipboard as rich text, kept in a local history
and turned into a Notion task with one subtask per numbered item.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", ".env", "path to .env file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVarP(&a.model, "model", "m", "", "chat model (default: DEFAULT_MODEL or the settings file)")

	rootCmd.AddCommand(newSummarizeCommand(a))
	rootCmd.AddCommand(newDraftCommand(a))
	rootCmd.AddCommand(newInvoiceCommand(a))
	rootCmd.AddCommand(newPromptCommand(a))
	rootCmd.AddCommand(newRenderCommand(a))
	rootCmd.AddCommand(newCopyCommand(a))
	rootCmd.AddCommand(newPasteCommand(a))
	rootCmd.AddCommand(newHistoryCommand(a))
	rootCmd.AddCommand(newSendCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := validateColorMode(a.color); err != nil {
		return err
	}

	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logger.Init(level); err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	if !slices.Contains(cfg.Settings.Models, cfg.Model) {
		logger.Debug("Model is not in the configured list", map[string]interface{}{
			"model": cfg.Model,
		})
	}
	return nil
}
