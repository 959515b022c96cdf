package domain

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence operations
type ClientRepository interface {
	// GetByID retrieves a client by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// List retrieves all clients ordered by name
	List(ctx context.Context) ([]*Client, error)

	// Create creates a new client
	Create(ctx context.Context, client *Client) error
}

// GoalRepository defines the interface for goal persistence operations
type GoalRepository interface {
	// GetByID retrieves a goal by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)

	// List retrieves every goal of every client
	List(ctx context.Context) ([]*Goal, error)

	// ListByClient retrieves the goals of a client ordered by goal type
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Goal, error)

	// Create creates a new goal
	Create(ctx context.Context, goal *Goal) error

	// RecordProgress appends the history entry and sets the goal's current amount
	// to entry.CurrentAmount in a single transaction
	RecordProgress(ctx context.Context, entry *GoalHistory) error
}

// HistoryRepository defines the interface for goal history read operations
type HistoryRepository interface {
	// ListByGoal retrieves the history of a goal ordered by creation time (oldest first)
	ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*GoalHistory, error)

	// GetLatest retrieves the most recent history entry of a goal
	// Returns an error wrapping ErrNotFound when the goal has no history
	GetLatest(ctx context.Context, goalID uuid.UUID) (*GoalHistory, error)
}
