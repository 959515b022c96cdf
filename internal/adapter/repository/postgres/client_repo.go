package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// clientRepository implements domain.ClientRepository
type clientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) domain.ClientRepository {
	return &clientRepository{db: db}
}

// GetByID retrieves a client by its ID
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, client_name, phone_number, created_at
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	return client, nil
}

// List retrieves all clients ordered by name
func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, client_name, phone_number, created_at
		FROM clients
		ORDER BY client_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, client_name, phone_number, created_at)
		VALUES ($1, $2, $3, $4)
	`

	var phone interface{}
	if client.PhoneNumber != "" {
		phone = client.PhoneNumber
	}

	_, err := r.db.ExecContext(ctx, query, client.ID, client.Name, phone, client.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	var phone sql.NullString

	if err := row.Scan(&client.ID, &client.Name, &phone, &client.CreatedAt); err != nil {
		return nil, err
	}
	client.PhoneNumber = phone.String

	return &client, nil
}
