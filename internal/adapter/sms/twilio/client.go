// Package twilio sends SMS through the Twilio Messages API.
package twilio

import (
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
)

const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

// ErrNotConfigured is returned by NewClient when credentials or the messaging service are missing
var ErrNotConfigured = errors.New("twilio is not configured")

// Config holds the Twilio account settings
type Config struct {
	AccountSID          string
	AuthToken           string
	MessagingServiceSID string
	BaseURL             string
	Timeout             time.Duration
	MaxRetries          int
}

// Client sends messages through one messaging service
type Client struct {
	cfg  Config
	http *retryablehttp.Client
}

// NewClient creates a Client
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.MessagingServiceSID == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}

	return &Client{
		cfg: cfg,
		http: httpclient.New(httpclient.Options{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}),
	}, nil
}

// Send delivers body to the given number and returns the message SID
func (c *Client) Send(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("MessagingServiceSid", c.cfg.MessagingServiceSID)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, url.PathEscape(c.cfg.AccountSID))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	respBody, err := httpclient.Do(c.http, req)
	if err != nil {
		return "", errors.Wrapf(err, "sending sms to %s", to)
	}

	var resp struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if resp.SID == "" {
		return "", errors.New("response contained no message sid")
	}

	return resp.SID, nil
}
