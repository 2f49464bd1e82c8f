// internal/customer/store_postgres.go
package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore persists customers in the customers table. The table carries
// a unique constraint on email; constraint violations are translated to
// ErrDuplicateEmail so the orchestrator can distinguish the uniqueness race.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, c Customer) (Customer, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO customers (id, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.FirstName, c.LastName, c.Email, c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return Customer{}, ErrDuplicateEmail
		}
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	return c, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at
		FROM customers
		WHERE lower(email) = lower($1)
	`
	return s.scanRow(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at
		FROM customers
		WHERE id = $1
	`
	return s.scanRow(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) scanRow(row *sql.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}
