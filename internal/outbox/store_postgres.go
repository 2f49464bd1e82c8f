// internal/outbox/store_postgres.go
package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore persists outbox records in the outbox_events table. The
// primary key on event_id makes Append idempotent under redelivery of the
// same domain event.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, correlation_id, occurred_at, processed)
		VALUES ($1, $2, $3, $4, $5, $6, false)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.EventID, rec.EventType, rec.AggregateID, rec.Payload, rec.CorrelationID, rec.OccurredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("append outbox event: %w", err)
	}
	return nil
}

func (s *PostgresStore) FetchUnprocessed(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT event_id, event_type, aggregate_id, payload, correlation_id, occurred_at, processed, processed_at
		FROM outbox_events
		WHERE processed = false
		ORDER BY occurred_at
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unprocessed outbox events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var processedAt sql.NullTime
		if err := rows.Scan(&rec.EventID, &rec.EventType, &rec.AggregateID, &rec.Payload,
			&rec.CorrelationID, &rec.OccurredAt, &rec.Processed, &processedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		if processedAt.Valid {
			t := processedAt.Time
			rec.ProcessedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkProcessed(ctx context.Context, eventID string) error {
	query := `
		UPDATE outbox_events
		SET processed = true, processed_at = NOW()
		WHERE event_id = $1
	`
	_, err := s.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}
