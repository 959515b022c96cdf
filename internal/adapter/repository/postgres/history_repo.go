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

// historyRepository implements domain.HistoryRepository
type historyRepository struct {
	db *DB
}

// NewHistoryRepository creates a new goal history repository
func NewHistoryRepository(db *DB) domain.HistoryRepository {
	return &historyRepository{db: db}
}

// ListByGoal retrieves the history of a goal, oldest first
func (r *historyRepository) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*domain.GoalHistory, error) {
	query := `
		SELECT id, goal_id, goal_amount, current_amount, last_message_sent, created_at
		FROM goal_history
		WHERE goal_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal history: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.GoalHistory, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goal history: %w", err)
	}

	return entries, nil
}

// GetLatest retrieves the most recent history entry of a goal
func (r *historyRepository) GetLatest(ctx context.Context, goalID uuid.UUID) (*domain.GoalHistory, error) {
	query := `
		SELECT id, goal_id, goal_amount, current_amount, last_message_sent, created_at
		FROM goal_history
		WHERE goal_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	entry, err := scanHistory(r.db.QueryRowContext(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history for goal %s %w", goalID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest goal history: %w", err)
	}

	return entry, nil
}

func scanHistory(row rowScanner) (*domain.GoalHistory, error) {
	var entry domain.GoalHistory
	var goalAmountStr, currentStr string
	var message sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.GoalID,
		&goalAmountStr,
		&currentStr,
		&message,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	goalAmount, err := decimal.NewFromString(goalAmountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse goal_amount: %w", err)
	}
	entry.GoalAmount = goalAmount

	current, err := decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_amount: %w", err)
	}
	entry.CurrentAmount = current
	entry.MessageSent = message.String

	return &entry, nil
}
