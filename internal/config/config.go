// Package config loads the stockscope YAML configuration, layering a
// .env file and environment variable overrides on top.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockscope service.
type Config struct {
	Storage Storage `yaml:"storage"`
	Server  Server  `yaml:"server"`
	AI      AI      `yaml:"ai"`
	Logging Logging `yaml:"logging"`
}

// Storage holds paths for data files and persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	ResultsDir string `yaml:"results_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AI holds provider selection and credentials for recommendation
// generation. Provider is "openai" or "gemini".
type AI struct {
	Provider      string `yaml:"provider"`
	OpenAIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	GeminiKey     string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, fills in
// defaults, and applies .env plus environment variable overrides. A
// missing config file is not an error; the defaults plus environment
// carry a usable configuration.
func Load(path string) (*Config, error) {
	// Best effort: a .env next to the working directory mirrors the
	// deployment layout; absence is fine.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)
	fillDerived(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Storage: Storage{
			DataDir: "data",
		},
		Server: Server{
			Host: "0.0.0.0",
			Port: 5000,
		},
		AI: AI{
			Provider:      "openai",
			OpenAIBaseURL: "https://api.openai.com/v1",
			OpenAIModel:   "gpt-4-turbo-preview",
			GeminiModel:   "gemini-1.5-flash",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("RESULTS_DIR"); v != "" {
		cfg.Storage.ResultsDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}

	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	// OPEN_AI_KEY is the legacy name carried over from earlier deployments.
	if v := os.Getenv("OPEN_AI_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.OpenAIModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.GeminiKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.AI.GeminiModel = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// fillDerived completes paths that default relative to the data dir.
func fillDerived(cfg *Config) {
	if cfg.Storage.ResultsDir == "" {
		cfg.Storage.ResultsDir = filepath.Join(cfg.Storage.DataDir, "results")
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.Storage.DataDir, "stockscope.db")
	}
}
