// Package azure is a minimal Azure OpenAI chat completions client.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/simaogato/goalnudge-backend/internal/adapter/httpclient"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

const (
	DefaultAPIVersion = "2023-05-15"

	// Settings for short SMS-sized status messages
	messageMaxTokens   = 60
	messageTemperature = 0.9
)

// ErrNotConfigured is returned by NewClient when endpoint, key or deployment is missing
var ErrNotConfigured = errors.New("azure openai is not configured")

// Config holds the Azure OpenAI connection settings
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the chat completions API of one deployment
type Client struct {
	url    string
	apiKey string
	http   *retryablehttp.Client
}

type chatRequest struct {
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float64              `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a Client
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" {
		return nil, ErrNotConfigured
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(cfg.Endpoint, "/"),
		url.PathEscape(cfg.Deployment),
		url.QueryEscape(cfg.APIVersion),
	)

	return &Client{
		url:    endpoint,
		apiKey: cfg.APIKey,
		http: httpclient.New(httpclient.Options{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}),
	}, nil
}

// Complete sends a single user prompt and returns the reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, chatRequest{
		Messages:    []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}},
		MaxTokens:   messageMaxTokens,
		Temperature: messageTemperature,
	})
}

// Chat sends a conversation and returns the assistant reply
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	return c.complete(ctx, chatRequest{Messages: messages, Temperature: 0})
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	respBody, err := httpclient.Do(c.http, req)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
