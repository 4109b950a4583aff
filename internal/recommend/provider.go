package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotConfigured is returned when recommendation generation is
// requested without an API key for the selected provider.
var ErrNotConfigured = errors.New("AI provider not configured")

// Provider turns an analysis prompt into a recommendation report.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

const providerTimeout = 120 * time.Second

// ---------------------------------------------------------------------------
// OpenAI-compatible chat completions
// ---------------------------------------------------------------------------

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client *resty.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given base URL, key, and
// model. Returns nil when the key is empty so callers can detect the
// unconfigured state before any network call.
func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(providerTimeout)
	client.SetAuthToken(apiKey)
	return &OpenAIProvider{client: client, model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as a single user message at temperature 0.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       p.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: 0,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("parsing chat completions response: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("chat completions error %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("chat completions error %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completions returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// ---------------------------------------------------------------------------
// Gemini generateContent
// ---------------------------------------------------------------------------

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider calls the Gemini generateContent endpoint.
type GeminiProvider struct {
	client *resty.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider, or nil when the key is
// empty.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if apiKey == "" {
		return nil
	}
	client := resty.New()
	client.SetBaseURL(geminiBaseURL)
	client.SetTimeout(providerTimeout)
	client.SetHeader("x-goog-api-key", apiKey)
	return &GeminiProvider{client: client, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as a single content part.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		Post(fmt.Sprintf("/models/%s:generateContent", p.model))
	if err != nil {
		return "", fmt.Errorf("calling generateContent: %w", err)
	}

	var out geminiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("parsing generateContent response: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("generateContent error %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("generateContent error %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("generateContent returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
