// Package httpclient holds the retrying transport and error mapping shared by the
// outbound API clients.
package httpclient

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryWait  = 500 * time.Millisecond
	DefaultMaxWait    = 5 * time.Second
)

// Options configures a retrying client
type Options struct {
	HTTPClient *http.Client
	MaxRetries int // Negative disables retries
	RetryWait  time.Duration
	MaxWait    time.Duration
	Logger     *slog.Logger
}

// New creates a retrying client. 429 and 5xx responses and connection errors are retried;
// after the last attempt the final response is handed back instead of an error.
func New(opts Options) *retryablehttp.Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = DefaultRetryWait
	}
	if opts.MaxWait == 0 {
		opts.MaxWait = DefaultMaxWait
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = opts.HTTPClient
	client.RetryMax = opts.MaxRetries
	client.RetryWaitMin = opts.RetryWait
	client.RetryWaitMax = opts.MaxWait
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	// A nil logger silences the default stderr logger
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}

	return client
}

// Do executes req and returns the response body, or an error mapped from the status code
func Do(client *retryablehttp.Client, req *retryablehttp.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if err := CheckStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}
