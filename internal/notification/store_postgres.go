// internal/notification/store_postgres.go
package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore persists notifications. The notifications table carries a
// unique constraint on idempotency_key; violations surface as
// ErrDuplicateKey so the consumer can treat the race as a duplicate.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, n Notification) error {
	query := `
		INSERT INTO notifications (id, to_customer_id, to_customer_email, sender, message, sent_at, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.ToCustomerID, n.ToCustomerEmail, n.Sender, n.Message, n.SentAt, n.IdempotencyKey)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByIdempotencyKey(ctx context.Context, key string) (Notification, error) {
	query := `
		SELECT id, to_customer_id, to_customer_email, sender, message, sent_at, idempotency_key
		FROM notifications
		WHERE idempotency_key = $1
	`
	var n Notification
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&n.ID, &n.ToCustomerID, &n.ToCustomerEmail, &n.Sender, &n.Message, &n.SentAt, &n.IdempotencyKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, fmt.Errorf("query notification: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
