package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"healthmate-hq/healthgate/pkg/secrets"
)

// Default client settings. The base URL and model mirror the hosted AI
// gateway the web front-end was built against.
const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultModel   = "google/gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Config configures the upstream completion client.
type Config struct {
	// BaseURL is the OpenAI-compatible API root, without the
	// /chat/completions suffix.
	BaseURL string

	// Model is the fixed model identifier sent with every request.
	Model string

	// Credentials resolves the bearer credential per call.
	Credentials secrets.Provider

	// Timeout bounds each completion call. Default: 60s.
	Timeout time.Duration
}

// Client sends chat completions to the upstream API. It holds one pooled
// HTTP client; the go-openai wrapper around it is rebuilt per call so a
// rotated credential takes effect immediately.
type Client struct {
	baseURL    string
	model      string
	creds      secrets.Provider
	httpClient *http.Client
}

// NewClient creates an upstream client, applying defaults for any unset
// fields.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credentials provider is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		creds:   cfg.Credentials,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Model returns the fixed model identifier the client dispatches with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one system+user conversation and returns the first
// choice's message content. An empty string with a nil error means the
// provider replied without usable content; the caller substitutes its own
// placeholder.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	key, err := c.creds.Credential(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "resolving upstream credential failed", "error", err)
		return "", ErrNoCredential
	}
	if key == "" {
		return "", ErrNoCredential
	}

	clientCfg := openai.DefaultConfig(key)
	clientCfg.BaseURL = c.baseURL
	clientCfg.HTTPClient = c.httpClient

	resp, err := openai.NewClientWithConfig(clientCfg).CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
