package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient talks to an OpenAI-compatible chat-completion endpoint.
// A client without an API key is permanently disabled; callers must check
// Enabled before Complete.
type OpenRouterClient struct {
	http     *resty.Client
	apiKey   string
	model    string
	siteURL  string
	siteName string
}

type OpenRouterConfig struct {
	APIKey   string
	Model    string
	SiteURL  string // sent as HTTP-Referer, recommended by OpenRouter
	SiteName string // sent as X-Title
	BaseURL  string // override for tests
	Timeout  time.Duration
}

func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenRouterClient{
		http:     resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		siteURL:  cfg.SiteURL,
		siteName: cfg.SiteName,
	}
}

func (c *OpenRouterClient) Enabled() bool {
	return c.apiKey != ""
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("openrouter: no API key configured")
	}

	body := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Temperature: 0.5,
	}

	var out chatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("HTTP-Referer", c.siteURL).
		SetHeader("X-Title", c.siteName).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter: request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter: status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", domain.ErrUnexpectedCompletion
	}
	return out.Choices[0].Message.Content, nil
}
