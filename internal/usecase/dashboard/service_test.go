package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// MockGoalRepository is a mock implementation of GoalRepository
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Goal, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) RecordProgress(ctx context.Context, entry *domain.GoalHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*domain.GoalHistory, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GoalHistory), args.Error(1)
}

func (m *MockHistoryRepository) GetLatest(ctx context.Context, goalID uuid.UUID) (*domain.GoalHistory, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalHistory), args.Error(1)
}

func TestDashboardService_ListClients(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	service := NewDashboardService(clientRepo, new(MockGoalRepository), new(MockHistoryRepository))

	clients := []*domain.Client{{ID: uuid.New(), Name: "Adam"}, {ID: uuid.New(), Name: "Jane"}}
	clientRepo.On("List", ctx).Return(clients, nil)

	got, err := service.ListClients(ctx)

	require.NoError(t, err)
	assert.Equal(t, clients, got)
}

func TestDashboardService_ListClients_Error(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	service := NewDashboardService(clientRepo, new(MockGoalRepository), new(MockHistoryRepository))

	clientRepo.On("List", ctx).Return(nil, errors.New("db down"))

	_, err := service.ListClients(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list clients")
}

func TestDashboardService_GetClientGoalHistory(t *testing.T) {
	ctx := context.Background()
	goalRepo := new(MockGoalRepository)
	historyRepo := new(MockHistoryRepository)
	service := NewDashboardService(new(MockClientRepository), goalRepo, historyRepo)

	clientID := uuid.New()
	home := &domain.Goal{
		ID:                     uuid.New(),
		ClientID:               clientID,
		GoalType:               "Home",
		GoalAmount:             decimal.NewFromInt(1000),
		CurrentAmount:          decimal.NewFromInt(1000),
		WithdrawalPeriodMonths: 0,
	}
	retirement := &domain.Goal{
		ID:                     uuid.New(),
		ClientID:               clientID,
		GoalType:               "Retirement",
		GoalAmount:             decimal.NewFromInt(100000),
		CurrentAmount:          decimal.NewFromInt(72345),
		MonthlyContribution:    decimal.Zero,
		WithdrawalPeriodMonths: 12,
	}
	homeHistory := []*domain.GoalHistory{{GoalID: home.ID, CurrentAmount: decimal.NewFromInt(900), MessageSent: "nearly"}}

	goalRepo.On("ListByClient", ctx, clientID).Return([]*domain.Goal{home, retirement}, nil)
	historyRepo.On("ListByGoal", ctx, home.ID).Return(homeHistory, nil)
	historyRepo.On("ListByGoal", ctx, retirement.ID).Return([]*domain.GoalHistory{}, nil)

	overviews, err := service.GetClientGoalHistory(ctx, clientID)

	require.NoError(t, err)
	require.Len(t, overviews, 2)

	assert.Equal(t, "Home", overviews[0].Goal.GoalType)
	assert.Equal(t, homeHistory, overviews[0].History)
	assert.Equal(t, "100", overviews[0].ProgressPercent.String())
	assert.True(t, overviews[0].OnTrack)

	assert.Empty(t, overviews[1].History)
	assert.Equal(t, "72.3", overviews[1].ProgressPercent.String())
	assert.False(t, overviews[1].OnTrack)
}

func TestDashboardService_GetClientGoalHistory_NoGoals(t *testing.T) {
	ctx := context.Background()
	goalRepo := new(MockGoalRepository)
	service := NewDashboardService(new(MockClientRepository), goalRepo, new(MockHistoryRepository))

	clientID := uuid.New()
	goalRepo.On("ListByClient", ctx, clientID).Return([]*domain.Goal{}, nil)

	_, err := service.GetClientGoalHistory(ctx, clientID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboardService_GetClientGoalHistory_HistoryError(t *testing.T) {
	ctx := context.Background()
	goalRepo := new(MockGoalRepository)
	historyRepo := new(MockHistoryRepository)
	service := NewDashboardService(new(MockClientRepository), goalRepo, historyRepo)

	clientID := uuid.New()
	goal := &domain.Goal{ID: uuid.New(), ClientID: clientID, GoalType: "Home", GoalAmount: decimal.NewFromInt(1)}
	goalRepo.On("ListByClient", ctx, clientID).Return([]*domain.Goal{goal}, nil)
	historyRepo.On("ListByGoal", ctx, goal.ID).Return(nil, errors.New("timeout"))

	_, err := service.GetClientGoalHistory(ctx, clientID)

	assert.Error(t, err)
}
