package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/evaluator"
)

// GoalOverview is a goal together with its recorded history and current standing
type GoalOverview struct {
	Goal            *domain.Goal
	History         []*domain.GoalHistory
	ProgressPercent decimal.Decimal
	OnTrack         bool
}

// DashboardService handles the read-only views of clients and their goals
type DashboardService struct {
	ClientRepo  domain.ClientRepository
	GoalRepo    domain.GoalRepository
	HistoryRepo domain.HistoryRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	clientRepo domain.ClientRepository,
	goalRepo domain.GoalRepository,
	historyRepo domain.HistoryRepository,
) *DashboardService {
	return &DashboardService{
		ClientRepo:  clientRepo,
		GoalRepo:    goalRepo,
		HistoryRepo: historyRepo,
	}
}

// ListClients returns every client ordered by name
func (s *DashboardService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// GetClientGoalHistory returns the client's goals ordered by type, each with its full history.
// Returns an error wrapping domain.ErrNotFound when the client has no goals.
func (s *DashboardService) GetClientGoalHistory(ctx context.Context, clientID uuid.UUID) ([]*GoalOverview, error) {
	goals, err := s.GoalRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("no goals found for client %s: %w", clientID, domain.ErrNotFound)
	}

	overviews := make([]*GoalOverview, 0, len(goals))
	for _, goal := range goals {
		history, err := s.HistoryRepo.ListByGoal(ctx, goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list history of goal %s: %w", goal.ID, err)
		}

		// A zero goal amount has no meaningful percent; report zero
		percent, err := evaluator.ProgressPercent(goal.CurrentAmount, goal.GoalAmount)
		if err != nil {
			percent = decimal.Zero
		}

		overviews = append(overviews, &GoalOverview{
			Goal:            goal,
			History:         history,
			ProgressPercent: percent,
			OnTrack: evaluator.IsOnTrack(
				goal.CurrentAmount,
				goal.MonthlyContribution,
				goal.WithdrawalPeriodMonths,
				goal.ExpectedReturnRate,
				goal.GoalAmount,
			),
		})
	}

	return overviews, nil
}
