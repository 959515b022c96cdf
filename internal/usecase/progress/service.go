// Package progress records goal progress and runs batch evaluations.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/notify"
)

// Amounts are kept to the cent and must stay below 10^12, matching the NUMERIC(14, 2) columns
const amountPlaces = 2

var maxAmount = decimal.New(1, 12)

// GoalEvaluator turns a snapshot into an evaluation
type GoalEvaluator interface {
	Evaluate(ctx context.Context, snap domain.Snapshot) (*domain.Evaluation, error)
}

// Notifier delivers a message to the given destinations
type Notifier interface {
	Broadcast(ctx context.Context, destinations []string, body string) ([]notify.Delivery, error)
}

// NotificationPolicy decides whether an evaluation is sent to the client
type NotificationPolicy interface {
	Allows(eval *domain.Evaluation) (bool, error)
}

// Outcome is the result of evaluating one goal
type Outcome struct {
	Client     *domain.Client
	Goal       *domain.Goal
	Evaluation *domain.Evaluation
	History    *domain.GoalHistory // Nil for evaluations that were not persisted
	Notified   bool
}

// Service handles progress recording and evaluation
type Service struct {
	clients   domain.ClientRepository
	goals     domain.GoalRepository
	history   domain.HistoryRepository
	evaluator GoalEvaluator
	notifier  Notifier
	policy    NotificationPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sends each recorded evaluation to the client's phone when the policy allows it.
// A nil policy always allows.
func WithNotifier(notifier Notifier, policy NotificationPolicy) Option {
	return func(s *Service) {
		s.notifier = notifier
		s.policy = policy
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp history entries
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new progress Service
func NewService(
	clients domain.ClientRepository,
	goals domain.GoalRepository,
	history domain.HistoryRepository,
	evaluator GoalEvaluator,
	opts ...Option,
) *Service {
	s := &Service{
		clients:   clients,
		goals:     goals,
		history:   history,
		evaluator: evaluator,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordProgress evaluates the goal at newAmount against its previous current amount,
// appends a history entry carrying the generated message, and updates the goal.
// newAmount is rounded to the cent before it is evaluated or stored.
func (s *Service) RecordProgress(ctx context.Context, goalID uuid.UUID, newAmount decimal.Decimal) (*Outcome, error) {
	if newAmount.IsNegative() {
		return nil, fmt.Errorf("current amount cannot be negative: %w", domain.ErrInvalidInput)
	}
	newAmount = newAmount.Round(amountPlaces)
	if newAmount.GreaterThanOrEqual(maxAmount) {
		return nil, fmt.Errorf("current amount must be below %s: %w", maxAmount, domain.ErrInvalidInput)
	}

	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, goal.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client of goal %s: %w", goalID, err)
	}

	latest, err := s.latestHistory(ctx, goalID)
	if err != nil {
		return nil, err
	}
	lastMessage := ""
	if latest != nil {
		lastMessage = latest.MessageSent
	}

	snap := goal.Snapshot(client.Name, newAmount, goal.CurrentAmount, lastMessage)
	eval, err := s.evaluator.Evaluate(ctx, snap)
	if err != nil {
		return nil, err
	}

	entry := &domain.GoalHistory{
		ID:            uuid.New(),
		GoalID:        goal.ID,
		GoalAmount:    goal.GoalAmount,
		CurrentAmount: newAmount,
		MessageSent:   eval.Message,
		CreatedAt:     s.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}

	if err := s.goals.RecordProgress(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}
	goal.CurrentAmount = newAmount

	s.logger.Info("progress recorded",
		"goal_id", goal.ID,
		"percent", eval.ProgressPercent.String(),
		"change", eval.ProgressChange,
		"on_track", eval.OnTrack,
	)

	return &Outcome{
		Client:     client,
		Goal:       goal,
		Evaluation: eval,
		History:    entry,
		Notified:   s.notify(ctx, client, eval),
	}, nil
}

// EvaluateAll evaluates every goal without persisting anything. The previous value of a
// goal is its latest recorded amount, or its initial amount when it has no history.
// With pendingOnly, goals that already had a message sent are skipped.
// Goals that cannot be evaluated are logged and skipped.
func (s *Service) EvaluateAll(ctx context.Context, pendingOnly bool) ([]*Outcome, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	clients := make(map[uuid.UUID]*domain.Client)
	outcomes := make([]*Outcome, 0, len(goals))

	for _, goal := range goals {
		latest, err := s.latestHistory(ctx, goal.ID)
		if err != nil {
			return nil, err
		}
		if pendingOnly && latest != nil && latest.MessageSent != "" {
			continue
		}

		client, ok := clients[goal.ClientID]
		if !ok {
			client, err = s.clients.GetByID(ctx, goal.ClientID)
			if err != nil {
				return nil, fmt.Errorf("failed to load client of goal %s: %w", goal.ID, err)
			}
			clients[goal.ClientID] = client
		}

		lastValue := goal.InitialAmount
		lastMessage := ""
		if latest != nil {
			lastValue = latest.CurrentAmount
			lastMessage = latest.MessageSent
		}

		eval, err := s.evaluator.Evaluate(ctx, goal.Snapshot(client.Name, goal.CurrentAmount, lastValue, lastMessage))
		if err != nil {
			s.logger.Warn("skipping goal", "goal_id", goal.ID, "error", err)
			continue
		}

		outcomes = append(outcomes, &Outcome{Client: client, Goal: goal, Evaluation: eval})
	}

	return outcomes, nil
}

func (s *Service) latestHistory(ctx context.Context, goalID uuid.UUID) (*domain.GoalHistory, error) {
	latest, err := s.history.GetLatest(ctx, goalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load history of goal %s: %w", goalID, err)
	}
	return latest, nil
}

// notify never fails the recording; problems are logged
func (s *Service) notify(ctx context.Context, client *domain.Client, eval *domain.Evaluation) bool {
	if s.notifier == nil || client.PhoneNumber == "" {
		return false
	}

	if s.policy != nil {
		allowed, err := s.policy.Allows(eval)
		if err != nil {
			s.logger.Warn("notification policy failed", "client_id", client.ID, "error", err)
			return false
		}
		if !allowed {
			return false
		}
	}

	deliveries, err := s.notifier.Broadcast(ctx, []string{client.PhoneNumber}, eval.Message)
	if err != nil {
		s.logger.Warn("notification failed", "client_id", client.ID, "error", err)
		return false
	}
	for _, d := range deliveries {
		if d.Err == nil {
			return true
		}
	}
	return false
}
