// internal/notification/implementation.go
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements idempotent notification processing. Duplicates are
// suppressed twice: a read-check catches replays cheaply, and the store's
// unique constraint catches the read-then-write race under concurrent
// redelivery. Any other failure propagates so the message channel can apply
// its own retry or dead-letter policy.
type service struct {
	store     Store
	deliverer Deliverer
	logger    *slog.Logger
}

func NewService(store Store, deliverer Deliverer, logger *slog.Logger) Service {
	return &service{store: store, deliverer: deliverer, logger: logger}
}

func (s *service) Send(ctx context.Context, req Request) error {
	key := IdempotencyKey(req)
	log := s.logger.With("idempotency_key", key, "customer_id", req.ToCustomerID)

	_, err := s.store.FindByIdempotencyKey(ctx, key)
	switch {
	case err == nil:
		log.InfoContext(ctx, "notification already processed, skipping duplicate")
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("look up notification: %w", err)
	}

	n := Notification{
		ID:              uuid.New(),
		ToCustomerID:    req.ToCustomerID,
		ToCustomerEmail: req.ToCustomerEmail,
		Sender:          Sender,
		Message:         req.Message,
		SentAt:          time.Now().UTC(),
		IdempotencyKey:  key,
	}

	if err := s.store.Save(ctx, n); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// Another redelivery won the race; same outcome as the read-check.
			log.WarnContext(ctx, "duplicate notification detected during save, skipping")
			return nil
		}
		return fmt.Errorf("save notification: %w", err)
	}

	if err := s.deliverer.Deliver(ctx, n); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}

	log.InfoContext(ctx, "notification processed")
	return nil
}

// LogDeliverer stands in for a real email/SMS integration.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(ctx context.Context, n Notification) error {
	d.logger.InfoContext(ctx, "sending notification",
		"to", n.ToCustomerEmail,
		"sender", n.Sender,
		"message", n.Message,
	)
	return nil
}
