package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxWithdrawalPeriodMonths bounds the projection horizon (100 years)
const MaxWithdrawalPeriodMonths = 1200

// Goal represents a tracked savings or investment target
type Goal struct {
	ID                     uuid.UUID
	ClientID               uuid.UUID
	GoalType               string          // e.g. "Retirement", "Home", "Education"
	GoalAmount             decimal.Decimal // Target value, strictly positive
	InitialAmount          decimal.Decimal // Informational only, never used in projections
	CurrentAmount          decimal.Decimal
	MonthlyContribution    decimal.Decimal // Negative values model withdrawals
	WithdrawalPeriodMonths int             // Number of compounding periods projected forward
	ExpectedReturnRate     decimal.Decimal // Annualized nominal rate (0.07 = 7%)
	CreatedAt              time.Time
}

// Validate ensures the goal adheres to domain rules
// Returns an error if validation fails
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.GoalType) == "" {
		return errors.New("goal type cannot be empty")
	}

	if g.GoalAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("goal amount must be positive")
	}

	if g.CurrentAmount.LessThan(decimal.Zero) {
		return errors.New("current amount cannot be negative")
	}

	if g.WithdrawalPeriodMonths < 0 {
		return errors.New("withdrawal period cannot be negative")
	}

	if g.WithdrawalPeriodMonths > MaxWithdrawalPeriodMonths {
		return errors.New("withdrawal period cannot exceed 1200 months")
	}

	return nil
}

// Snapshot captures the state of a goal at evaluation time.
// LastMonthValue and LastMessageSent are owned by the caller (persistence layer).
type Snapshot struct {
	ClientName             string
	GoalType               string
	CurrentAmount          decimal.Decimal
	GoalAmount             decimal.Decimal
	InitialAmount          decimal.Decimal
	MonthlyContribution    decimal.Decimal
	WithdrawalPeriodMonths int
	ExpectedReturnRate     decimal.Decimal
	LastMonthValue         decimal.Decimal
	LastMessageSent        string // Empty when no message was sent yet
}

// Snapshot builds an evaluation snapshot for the goal at the given current amount
func (g *Goal) Snapshot(clientName string, current, lastMonthValue decimal.Decimal, lastMessage string) Snapshot {
	return Snapshot{
		ClientName:             clientName,
		GoalType:               g.GoalType,
		CurrentAmount:          current,
		GoalAmount:             g.GoalAmount,
		InitialAmount:          g.InitialAmount,
		MonthlyContribution:    g.MonthlyContribution,
		WithdrawalPeriodMonths: g.WithdrawalPeriodMonths,
		ExpectedReturnRate:     g.ExpectedReturnRate,
		LastMonthValue:         lastMonthValue,
		LastMessageSent:        lastMessage,
	}
}

// Evaluation is the outcome of evaluating a goal snapshot. It is not persisted as such;
// callers decide what to store.
type Evaluation struct {
	ProgressPercent decimal.Decimal
	ProgressChange  ProgressChange
	OnTrack         bool
	Message         string
}
