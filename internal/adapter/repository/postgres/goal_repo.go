package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

const goalColumns = `id, client_id, goal_type, goal_amount, initial_amount, current_amount,
		monthly_contribution, withdrawal_period_months, expected_return_rate, created_at`

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// GetByID retrieves a goal by its ID
func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal by ID: %w", err)
	}

	return goal, nil
}

// List retrieves every goal of every client
func (r *goalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals ORDER BY client_id, goal_type`
	return r.queryGoals(ctx, query)
}

// ListByClient retrieves the goals of a client ordered by goal type
func (r *goalRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE client_id = $1 ORDER BY goal_type`
	return r.queryGoals(ctx, query, clientID)
}

func (r *goalRepository) queryGoals(ctx context.Context, query string, args ...interface{}) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// Create creates a new goal
func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.ClientID,
		goal.GoalType,
		goal.GoalAmount.String(),
		goal.InitialAmount.String(),
		goal.CurrentAmount.String(),
		goal.MonthlyContribution.String(),
		goal.WithdrawalPeriodMonths,
		goal.ExpectedReturnRate.String(),
		goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// RecordProgress appends the history entry and updates the goal's current amount atomically
func (r *goalRepository) RecordProgress(ctx context.Context, entry *domain.GoalHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
		INSERT INTO goal_history (id, goal_id, goal_amount, current_amount, last_message_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		entry.ID,
		entry.GoalID,
		entry.GoalAmount.String(),
		entry.CurrentAmount.String(),
		entry.MessageSent,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert goal history: %w", err)
	}

	updateQuery := `UPDATE goals SET current_amount = $1 WHERE id = $2`
	res, err := tx.ExecContext(ctx, updateQuery, entry.CurrentAmount.String(), entry.GoalID)
	if err != nil {
		return fmt.Errorf("failed to update goal current amount: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s %w", entry.GoalID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress: %w", err)
	}

	return nil
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var goalAmountStr, initialStr, currentStr, contributionStr, rateStr string

	err := row.Scan(
		&goal.ID,
		&goal.ClientID,
		&goal.GoalType,
		&goalAmountStr,
		&initialStr,
		&currentStr,
		&contributionStr,
		&goal.WithdrawalPeriodMonths,
		&rateStr,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse NUMERIC columns
	fields := []struct {
		name   string
		raw    string
		target *decimal.Decimal
	}{
		{"goal_amount", goalAmountStr, &goal.GoalAmount},
		{"initial_amount", initialStr, &goal.InitialAmount},
		{"current_amount", currentStr, &goal.CurrentAmount},
		{"monthly_contribution", contributionStr, &goal.MonthlyContribution},
		{"expected_return_rate", rateStr, &goal.ExpectedReturnRate},
	}
	for _, f := range fields {
		value, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		*f.target = value
	}

	return &goal, nil
}
