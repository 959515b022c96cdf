package domain

import "errors"

var (
	// ErrNotFound is returned when a client, goal or history entry does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request fails domain validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionByZero is returned when a progress percentage is requested for a zero goal amount
	ErrDivisionByZero = errors.New("goal amount must not be zero")

	// ErrLanguageGenerationUnavailable is returned by message generators backed by an
	// external language model when it is unreachable, unconfigured or returns nothing usable
	ErrLanguageGenerationUnavailable = errors.New("language generation unavailable")
)
