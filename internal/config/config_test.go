package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.ResultsDir != filepath.Join("data", "results") {
		t.Errorf("ResultsDir = %q", cfg.Storage.ResultsDir)
	}
	if cfg.Storage.SQLitePath != filepath.Join("data", "stockscope.db") {
		t.Errorf("SQLitePath = %q", cfg.Storage.SQLitePath)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.OpenAIModel != "gpt-4-turbo-preview" {
		t.Errorf("AI defaults = %+v", cfg.AI)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockscope.yaml")
	content := `
storage:
  data_dir: /var/lib/stockscope
server:
  port: 8080
ai:
  provider: gemini
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("Provider = %q", cfg.AI.Provider)
	}
	if cfg.Storage.ResultsDir != filepath.Join("/var/lib/stockscope", "results") {
		t.Errorf("ResultsDir = %q, want derived from data_dir", cfg.Storage.ResultsDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATA_DIR", "/tmp/scope")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.AI.Provider != "gemini" || cfg.AI.GeminiKey != "test-key" {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.Storage.SQLitePath != filepath.Join("/tmp/scope", "stockscope.db") {
		t.Errorf("SQLitePath = %q", cfg.Storage.SQLitePath)
	}
}

func TestLoadLegacyOpenAIKeyName(t *testing.T) {
	t.Setenv("OPEN_AI_KEY", "legacy")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI.OpenAIKey != "legacy" {
		t.Errorf("OpenAIKey = %q, want legacy name honored", cfg.AI.OpenAIKey)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [not: a: map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
