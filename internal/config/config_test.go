package config

import (
	"os"
	"path/filepath"
	"testing"

	"jarvis/internal/intent"
)

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "LLAMA_SERVER_URL=http://localhost:9000/completion\n" +
		"NOTION_API_KEY=secret_test\n" +
		"STATE_PATH=" + dir + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LlamaServerURL != "http://localhost:9000/completion" {
		t.Errorf("LlamaServerURL = %q", cfg.LlamaServerURL)
	}
	if cfg.NotionAPIKey != "secret_test" {
		t.Errorf("NotionAPIKey = %q", cfg.NotionAPIKey)
	}
	if cfg.StatePath != dir {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.Keywords == nil {
		t.Fatal("expected default keyword table")
	}
	if got := cfg.Keywords.Classify("check my calendar"); got != intent.ActionCalendar {
		t.Errorf("Classify = %v", got)
	}
}

func TestLoadMissingEnvFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/.env"); err == nil {
		t.Fatal("expected an error for an explicit missing env file")
	}
}

func TestLoadKeywordsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := "calendar:\n  - agenda\n  - diary\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := loadKeywords(path)
	if err != nil {
		t.Fatalf("loadKeywords failed: %v", err)
	}

	// Overridden domain uses the file's words
	if got := table.Classify("what is on my agenda"); got != intent.ActionCalendar {
		t.Errorf("Classify(agenda) = %v", got)
	}
	if got := table.Classify("check my calendar"); got == intent.ActionCalendar {
		t.Errorf("default calendar keywords should be replaced, got %v", got)
	}

	// Untouched domains keep their defaults
	if got := table.Classify("take a note"); got != intent.ActionNotion {
		t.Errorf("Classify(note) = %v", got)
	}
}

func TestLoadKeywordsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	if err := os.WriteFile(path, []byte("calendar: {broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadKeywords(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
