// Package config loads runtime settings from the environment and an
// optional keywords file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jarvis/internal/intent"
	"jarvis/internal/logging"
)

// Config holds everything the assistant needs at startup
type Config struct {
	LlamaServerURL string
	StatePath      string

	NotionAPIKey     string
	NotionDatabaseID string

	GoogleCredentialsFile string
	GoogleCalendarID      string

	Keywords *intent.Table
}

// Load reads envFile (when non-empty), then the environment. A missing
// env file is not an error; explicit environment variables win either way.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logging.Debug("config", "no .env file found, using environment")
	}

	cfg := &Config{
		LlamaServerURL:        os.Getenv("LLAMA_SERVER_URL"),
		StatePath:             os.Getenv("STATE_PATH"),
		NotionAPIKey:          os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID:      os.Getenv("NOTION_DATABASE_ID"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CALENDAR_CREDENTIALS_FILE"),
		GoogleCalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
	}
	if cfg.StatePath == "" {
		cfg.StatePath = "./state"
	}

	keywords, err := loadKeywords(os.Getenv("KEYWORDS_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.Keywords = keywords

	return cfg, nil
}

// keywordsFile is the YAML shape of a keyword-table override
type keywordsFile struct {
	Calendar []string `yaml:"calendar"`
	Notion   []string `yaml:"notion"`
	Email    []string `yaml:"email"`
}

// loadKeywords returns the default table when path is empty, otherwise
// reads a YAML override. Domains absent from the file keep their defaults.
func loadKeywords(path string) (*intent.Table, error) {
	if path == "" {
		return intent.NewTable(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse keywords file: %w", err)
	}

	words := intent.DefaultKeywords()
	if len(kf.Calendar) > 0 {
		words[intent.ActionCalendar] = kf.Calendar
	}
	if len(kf.Notion) > 0 {
		words[intent.ActionNotion] = kf.Notion
	}
	if len(kf.Email) > 0 {
		words[intent.ActionEmail] = kf.Email
	}

	logging.Info("config", "keyword table loaded from %s", path)
	return intent.NewTable(words), nil
}
