package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "DEFAULT_MODEL",
	"NOTION_API_KEY", "NOTION_DATABASE_ID",
	"HISTORY_DB", "LOG_LEVEL", "ASSISTANT_SETTINGS", "TEAM_LEAD",
}

// clearEnv unsets the config variables for the test and restores them after
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultHistoryPath, cfg.HistoryPath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultModels, cfg.Settings.Models)
	assert.ErrorIs(t, cfg.RequireChat(), ErrMissingOpenAIKey)
	assert.ErrorIs(t, cfg.RequireTracker(), ErrMissingNotionKey)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_API_KEY", "from-environment")

	envFile := writeFile(t, ".env", `OPENAI_API_KEY=sk-test
OPENAI_BASE_URL=http://localhost:8080/v1
NOTION_API_KEY=from-file
NOTION_DATABASE_ID=db123
HISTORY_DB=/tmp/mail-history.db
LOG_LEVEL=debug
`)

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "from-environment", cfg.NotionKey)
	assert.Equal(t, "db123", cfg.NotionDatabaseID)
	assert.Equal(t, "/tmp/mail-history.db", cfg.HistoryPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.RequireChat())
	assert.NoError(t, cfg.RequireTracker())
}

func TestLoadSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEAM_LEAD", "user-lead")

	settingsPath := writeFile(t, "settings.yaml", `
default_model: gpt-4.1
models: [gpt-4.1, o4-mini]
notion:
  title: Task
  priority: Urgency
tasks:
  assignees:
    lead: ${TEAM_LEAD}
    Sam: user-sam
  priorities:
    High: "🔥 High"
    Low: Low
  default_priority: Low
  fields:
    Source: Email
`)
	t.Setenv("ASSISTANT_SETTINGS", settingsPath)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.Model)
	assert.Equal(t, []string{"gpt-4.1", "o4-mini"}, cfg.Settings.Models)
	assert.Equal(t, "Task", cfg.Settings.Notion.Title)
	assert.Equal(t, "Urgency", cfg.Settings.Notion.Priority)
	assert.Empty(t, cfg.Settings.Notion.Due)
	assert.Equal(t, map[string]string{"lead": "user-lead", "Sam": "user-sam"}, cfg.Settings.Tasks.Assignees)
	assert.Equal(t, "🔥 High", cfg.Settings.Tasks.Priorities["High"])
	assert.Equal(t, "Low", cfg.Settings.Tasks.DefaultPriority)
	assert.Equal(t, map[string]string{"Source": "Email"}, cfg.Settings.Tasks.Fields)

	t.Setenv("DEFAULT_MODEL", "o4-mini")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "o4-mini", cfg.Model)
}

func TestLoadSettingsErrors(t *testing.T) {
	clearEnv(t)

	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	t.Setenv("ASSISTANT_SETTINGS", writeFile(t, "bad.yaml", "tasks: [unclosed"))
	_, err = Load("")
	assert.ErrorContains(t, err, "failed to unmarshal settings")
}

func TestRequireTrackerDatabase(t *testing.T) {
	cfg := &Config{NotionKey: "key"}
	assert.ErrorIs(t, cfg.RequireTracker(), ErrMissingNotionDatabase)
}
