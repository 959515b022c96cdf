package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents an advisory client who owns one or more goals
type Client struct {
	ID          uuid.UUID
	Name        string
	PhoneNumber string // E.164, empty when the client has not opted into SMS
	CreatedAt   time.Time
}

// FirstName returns the first whitespace-delimited token of the client's name
func (c *Client) FirstName() string {
	return FirstName(c.Name)
}

// Validate ensures the client adheres to domain rules
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name cannot be empty")
	}
	return nil
}

// FirstName returns the first whitespace-delimited token of a full name.
// An empty or blank name yields an empty string.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
