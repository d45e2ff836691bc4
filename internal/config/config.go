// Package config loads credentials from the environment and assistant
// settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/notion"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "gpt-4"
	DefaultHistoryPath = "history.db"
	DefaultLogLevel    = "info"
)

// DefaultModels are offered when the settings list none
var DefaultModels = []string{"gpt-4", "gpt-4.1", "gpt-5", "o4-mini"}

var (
	ErrMissingOpenAIKey      = errors.New("OPENAI_API_KEY is not set")
	ErrMissingNotionKey      = errors.New("NOTION_API_KEY is not set")
	ErrMissingNotionDatabase = errors.New("NOTION_DATABASE_ID is not set")
)

// Settings is the YAML settings file
type Settings struct {
	DefaultModel string                 `yaml:"default_model,omitempty"`
	Models       []string               `yaml:"models,omitempty"`
	Notion       notion.Properties      `yaml:"notion"`
	Tasks        assistant.TaskSettings `yaml:"tasks"`
}

// Config is the resolved application configuration
type Config struct {
	OpenAIKey        string
	OpenAIBaseURL    string
	Model            string
	NotionKey        string
	NotionDatabaseID string
	HistoryPath      string
	LogLevel         string
	SettingsPath     string
	Settings         Settings
}

// Load reads envFile (when it exists) into the environment, then resolves
// the configuration. Variables already set in the environment win over the
// file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		NotionKey:        os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		HistoryPath:      getenv("HISTORY_DB", DefaultHistoryPath),
		LogLevel:         getenv("LOG_LEVEL", DefaultLogLevel),
		SettingsPath:     os.Getenv("ASSISTANT_SETTINGS"),
	}

	if cfg.SettingsPath != "" {
		settings, err := LoadSettings(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
		cfg.Settings = settings
	}

	cfg.Model = os.Getenv("DEFAULT_MODEL")
	if cfg.Model == "" {
		cfg.Model = cfg.Settings.DefaultModel
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if len(cfg.Settings.Models) == 0 {
		cfg.Settings.Models = DefaultModels
	}

	return cfg, nil
}

// LoadSettings reads the YAML settings file. Environment variables in the
// file are expanded.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}

// RequireChat checks the settings needed to call the chat provider
func (c *Config) RequireChat() error {
	if c.OpenAIKey == "" {
		return ErrMissingOpenAIKey
	}
	return nil
}

// RequireTracker checks the settings needed to create Notion tasks
func (c *Config) RequireTracker() error {
	if c.NotionKey == "" {
		return ErrMissingNotionKey
	}
	if c.NotionDatabaseID == "" {
		return ErrMissingNotionDatabase
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
