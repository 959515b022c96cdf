package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the provider rejects the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the provider resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrBadRequest is returned when the provider rejects the request payload
	ErrBadRequest = errors.New("bad request")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")
)

// Error is a non-2xx response from an outbound API
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (status %d): %s", e.Err, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v (status %d)", e.Err, e.StatusCode)
}

// Unwrap returns the sentinel error for the status class
func (e *Error) Unwrap() error {
	return e.Err
}

// CheckStatus returns nil for 2xx responses and an *Error otherwise.
// The message is taken from the common JSON error shapes when present.
func CheckStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	return &Error{
		StatusCode: statusCode,
		Message:    errorMessage(body),
		Err:        sentinelFor(statusCode),
	}
}

func sentinelFor(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	}
	if statusCode >= 500 {
		return ErrServerError
	}
	return ErrBadRequest
}

func errorMessage(body []byte) string {
	var resp struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if resp.Message != "" {
		return resp.Message
	}

	// {"error": {"message": "..."}} or {"error": "..."}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var plain string
	if err := json.Unmarshal(resp.Error, &plain); err == nil {
		return plain
	}
	return ""
}
