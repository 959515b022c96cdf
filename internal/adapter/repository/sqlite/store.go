// Package sqlite provides an embedded, file-backed implementation of the goal repositories
// for local runs and demos without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Fixed-width UTC layout so that timestamps sort lexicographically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is an SQLite database holding clients, goals and goal history
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and applies the schema
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Clients returns the client repository backed by this store
func (s *Store) Clients() domain.ClientRepository { return &clientRepository{s} }

// Goals returns the goal repository backed by this store
func (s *Store) Goals() domain.GoalRepository { return &goalRepository{s} }

// History returns the goal history repository backed by this store
func (s *Store) History() domain.HistoryRepository { return &historyRepository{s} }

type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Parse(time.RFC3339Nano, raw)
	}
	return t, nil
}

// clientRepository implements domain.ClientRepository
type clientRepository struct{ *Store }

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, client_name, phone_number, created_at FROM clients WHERE id = ?", id.String())

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, client_name, phone_number, created_at FROM clients ORDER BY client_name")
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	var phone any
	if client.PhoneNumber != "" {
		phone = client.PhoneNumber
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (id, client_name, phone_number, created_at) VALUES (?, ?, ?, ?)",
		client.ID.String(), client.Name, phone, formatTime(client.CreatedAt))
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return nil
}

func scanClient(row scanner) (*domain.Client, error) {
	var client domain.Client
	var phone sql.NullString
	var createdAt string

	if err := row.Scan(&client.ID, &client.Name, &phone, &createdAt); err != nil {
		return nil, err
	}
	client.PhoneNumber = phone.String

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	client.CreatedAt = t

	return &client, nil
}

const goalColumns = `id, client_id, goal_type, goal_amount, initial_amount, current_amount,
	monthly_contribution, withdrawal_period_months, expected_return_rate, created_at`

// goalRepository implements domain.GoalRepository
type goalRepository struct{ *Store }

func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id.String())

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting goal: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	return r.query(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY client_id, goal_type")
}

func (r *goalRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Goal, error) {
	return r.query(ctx, "SELECT "+goalColumns+" FROM goals WHERE client_id = ? ORDER BY goal_type", clientID.String())
}

func (r *goalRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		goal.ID.String(),
		goal.ClientID.String(),
		goal.GoalType,
		goal.GoalAmount.String(),
		goal.InitialAmount.String(),
		goal.CurrentAmount.String(),
		goal.MonthlyContribution.String(),
		goal.WithdrawalPeriodMonths,
		goal.ExpectedReturnRate.String(),
		formatTime(goal.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}
	return nil
}

func (r *goalRepository) RecordProgress(ctx context.Context, entry *domain.GoalHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO goal_history (id, goal_id, goal_amount, current_amount, last_message_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.GoalID.String(),
		entry.GoalAmount.String(),
		entry.CurrentAmount.String(),
		entry.MessageSent,
		formatTime(entry.CreatedAt),
	); err != nil {
		return fmt.Errorf("inserting goal history: %w", err)
	}

	res, err := tx.ExecContext(ctx, "UPDATE goals SET current_amount = ? WHERE id = ?",
		entry.CurrentAmount.String(), entry.GoalID.String())
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("goal %s %w", entry.GoalID, domain.ErrNotFound)
	}

	return tx.Commit()
}

func scanGoal(row scanner) (*domain.Goal, error) {
	var goal domain.Goal
	var amounts [5]string
	var createdAt string

	err := row.Scan(
		&goal.ID,
		&goal.ClientID,
		&goal.GoalType,
		&amounts[0],
		&amounts[1],
		&amounts[2],
		&amounts[3],
		&goal.WithdrawalPeriodMonths,
		&amounts[4],
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []*decimal.Decimal{
		&goal.GoalAmount,
		&goal.InitialAmount,
		&goal.CurrentAmount,
		&goal.MonthlyContribution,
		&goal.ExpectedReturnRate,
	}
	for i, raw := range amounts {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing goal amount %q: %w", raw, err)
		}
		*targets[i] = v
	}

	if goal.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &goal, nil
}

// historyRepository implements domain.HistoryRepository
type historyRepository struct{ *Store }

const historyColumns = "id, goal_id, goal_amount, current_amount, last_message_sent, created_at"

func (r *historyRepository) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*domain.GoalHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+historyColumns+" FROM goal_history WHERE goal_id = ? ORDER BY created_at", goalID.String())
	if err != nil {
		return nil, fmt.Errorf("listing goal history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.GoalHistory, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *historyRepository) GetLatest(ctx context.Context, goalID uuid.UUID) (*domain.GoalHistory, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+historyColumns+" FROM goal_history WHERE goal_id = ? ORDER BY created_at DESC LIMIT 1", goalID.String())

	entry, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history for goal %s %w", goalID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting latest goal history: %w", err)
	}
	return entry, nil
}

func scanHistory(row scanner) (*domain.GoalHistory, error) {
	var entry domain.GoalHistory
	var goalAmount, current, createdAt string
	var message sql.NullString

	if err := row.Scan(&entry.ID, &entry.GoalID, &goalAmount, &current, &message, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if entry.GoalAmount, err = decimal.NewFromString(goalAmount); err != nil {
		return nil, fmt.Errorf("parsing goal_amount: %w", err)
	}
	if entry.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parsing current_amount: %w", err)
	}
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	entry.MessageSent = message.String

	return &entry, nil
}
