package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stockscope/internal/analytics"
	"stockscope/internal/config"
	"stockscope/internal/domain"
	"stockscope/internal/util"
)

const (
	generateAttempts = 3
	generateBackoff  = 2 * time.Second
)

// Engine ties a Provider to the report store: it summarizes a stock
// set, asks the provider for recommendations, and persists the report.
type Engine struct {
	provider Provider
	reports  *Store
	log      *slog.Logger
}

// NewEngine creates an Engine. A nil provider is allowed; Analyze then
// fails with ErrNotConfigured before any network call.
func NewEngine(provider Provider, reports *Store, log *slog.Logger) *Engine {
	return &Engine{provider: provider, reports: reports, log: log}
}

// ProviderFromConfig builds the configured provider, or nil when no key
// is set for the selected provider.
func ProviderFromConfig(ai config.AI) Provider {
	switch ai.Provider {
	case "gemini":
		if p := NewGeminiProvider(ai.GeminiKey, ai.GeminiModel); p != nil {
			return p
		}
	default:
		if p := NewOpenAIProvider(ai.OpenAIBaseURL, ai.OpenAIKey, ai.OpenAIModel); p != nil {
			return p
		}
	}
	return nil
}

// Analyze generates a recommendation report from the given records and
// returns the report filename. Transport failures are retried a bounded
// number of times before giving up.
func (e *Engine) Analyze(ctx context.Context, records []domain.StockRecord) (string, error) {
	if e.provider == nil {
		return "", ErrNotConfigured
	}
	if len(records) == 0 {
		return "", errors.New("no stock data available; fetch data first")
	}

	stats := analytics.Summarize(records)
	prompt := BuildPrompt(stats)

	var report string
	err := util.Retry(ctx, generateAttempts, generateBackoff, func() error {
		var gerr error
		report, gerr = e.provider.Generate(ctx, prompt)
		return gerr
	})
	if err != nil {
		return "", fmt.Errorf("generating recommendations: %w", err)
	}

	name, err := e.reports.Write(time.Now(), report)
	if err != nil {
		return "", err
	}

	e.log.Info("recommendation report written",
		"provider", e.provider.Name(), "file", name, "stocks", len(records))
	return name, nil
}
