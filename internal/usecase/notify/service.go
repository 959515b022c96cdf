// Package notify delivers progress messages to clients over SMS.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// Sender delivers a single text message and returns the provider's delivery ID
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// Delivery is the outcome of sending to one destination
type Delivery struct {
	Destination string
	SID         string
	Err         error
}

// Service fans a message out to destinations
type Service struct {
	sender Sender
	book   PhoneBook
	logger *slog.Logger
}

// NewService creates a new notification Service. A nil logger uses slog.Default().
func NewService(sender Sender, book PhoneBook, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if book == nil {
		book = NewInMemoryPhoneBook()
	}
	return &Service{sender: sender, book: book, logger: logger}
}

// PhoneBook returns the phone book used when no destinations are given
func (s *Service) PhoneBook() PhoneBook {
	return s.book
}

// Broadcast sends body to every destination, or to every registered number when
// destinations is empty. A failed delivery is reported in its Delivery and never
// stops the remaining ones.
func (s *Service) Broadcast(ctx context.Context, destinations []string, body string) ([]Delivery, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("message body cannot be empty: %w", domain.ErrInvalidInput)
	}
	if s.sender == nil {
		return nil, errors.New("sms sender is not configured")
	}
	if len(destinations) == 0 {
		destinations = s.book.List()
	}

	deliveries := make([]Delivery, 0, len(destinations))
	for _, to := range destinations {
		sid, err := s.sender.Send(ctx, to, body)
		if err != nil {
			s.logger.Warn("sms delivery failed", "to", to, "error", err)
		}
		deliveries = append(deliveries, Delivery{Destination: to, SID: sid, Err: err})
	}

	return deliveries, nil
}
