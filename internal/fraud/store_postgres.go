// internal/fraud/store_postgres.go
package fraud

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists fraud check history in the fraud_checks table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, rec CheckRecord) error {
	query := `
		INSERT INTO fraud_checks (id, customer_id, is_fraudster, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.CustomerID, rec.IsFraudster, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert fraud check: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]CheckRecord, error) {
	query := `
		SELECT id, customer_id, is_fraudster, created_at
		FROM fraud_checks
		WHERE customer_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query fraud checks: %w", err)
	}
	defer rows.Close()

	var out []CheckRecord
	for rows.Next() {
		var rec CheckRecord
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.IsFraudster, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fraud check: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
