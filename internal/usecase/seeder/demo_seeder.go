package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// Fixed UUIDs for the demo data so that seeding is idempotent
var (
	DemoClientID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	DemoGoalID    = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	DemoHistoryID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
)

// DemoMessage is the message recorded as already sent to the demo client
const DemoMessage = "Hi Jane 👋, you're at 72% of your retirement goal! 🔥 Keep going strong!"

// DemoSeeder handles seeding of the demo client and goal
type DemoSeeder struct {
	clients domain.ClientRepository
	goals   domain.GoalRepository
	now     func() time.Time
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(clients domain.ClientRepository, goals domain.GoalRepository) *DemoSeeder {
	return &DemoSeeder{
		clients: clients,
		goals:   goals,
		now:     time.Now,
	}
}

// Seed ensures the demo client and goal exist.
// Existing records are left untouched.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	created := s.now().UTC()

	client := &domain.Client{
		ID:        DemoClientID,
		Name:      "Jane Doe",
		CreatedAt: created,
	}
	if err := s.ensureClient(ctx, client); err != nil {
		return err
	}

	goal := &domain.Goal{
		ID:                     DemoGoalID,
		ClientID:               DemoClientID,
		GoalType:               "Retirement",
		GoalAmount:             decimal.NewFromInt(100000),
		InitialAmount:          decimal.NewFromInt(72000),
		CurrentAmount:          decimal.NewFromInt(72000),
		MonthlyContribution:    decimal.NewFromInt(1000),
		WithdrawalPeriodMonths: 24,
		ExpectedReturnRate:     decimal.RequireFromString("0.05"),
		CreatedAt:              created,
	}

	_, err := s.goals.GetByID(ctx, goal.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("checking demo goal: %w", err)
	}

	if err := goal.Validate(); err != nil {
		return err
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return err
	}

	// The demo goal starts with one message already sent
	return s.goals.RecordProgress(ctx, &domain.GoalHistory{
		ID:            DemoHistoryID,
		GoalID:        goal.ID,
		GoalAmount:    goal.GoalAmount,
		CurrentAmount: goal.CurrentAmount,
		MessageSent:   DemoMessage,
		CreatedAt:     created,
	})
}

func (s *DemoSeeder) ensureClient(ctx context.Context, client *domain.Client) error {
	_, err := s.clients.GetByID(ctx, client.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("checking demo client: %w", err)
	}

	if err := client.Validate(); err != nil {
		return err
	}
	return s.clients.Create(ctx, client)
}
