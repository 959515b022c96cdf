package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalHistory is one recorded progress point of a goal together with the message sent for it
type GoalHistory struct {
	ID            uuid.UUID
	GoalID        uuid.UUID
	GoalAmount    decimal.Decimal // Target at the time of recording
	CurrentAmount decimal.Decimal
	MessageSent   string
	CreatedAt     time.Time
}

// Validate ensures the history entry adheres to domain rules
func (h *GoalHistory) Validate() error {
	if h.GoalID == uuid.Nil {
		return errors.New("history entry must reference a goal")
	}
	if h.CurrentAmount.LessThan(decimal.Zero) {
		return errors.New("current amount cannot be negative")
	}
	if h.CreatedAt.IsZero() {
		return errors.New("history entry must have a timestamp")
	}
	return nil
}
