// internal/outbox/relay.go
package outbox

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer forwards an outbox payload to the message channel under a routing
// key. The AMQP producer implements this; tests use fakes.
type Producer interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Relay polls the outbox for unprocessed records and forwards them to the
// message channel. A record is marked processed only after a successful
// publish, so delivery is at-least-once and consumers must dedupe.
type Relay struct {
	store      Store
	producer   Producer
	routingKey string
	interval   time.Duration
	batchSize  int
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewRelay(store Store, producer Producer, routingKey string, interval time.Duration, logger *slog.Logger) *Relay {
	return &Relay{
		store:      store,
		producer:   producer,
		routingKey: routingKey,
		interval:   interval,
		batchSize:  100,
		logger:     logger,
		tracer:     otel.Tracer("veriboard/outbox"),
	}
}

// Run drains the outbox on a fixed interval until the context is canceled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain forwards one batch of unprocessed records. A failed publish leaves
// the record unprocessed for the next pass; later records are still tried so
// one poisoned payload cannot wedge the queue.
func (r *Relay) Drain(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "outbox.drain")
	defer span.End()

	records, err := r.store.FetchUnprocessed(ctx, r.batchSize)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("outbox.batch_size", len(records)))

	for _, rec := range records {
		if err := r.producer.Publish(ctx, r.routingKey, rec.Payload); err != nil {
			r.logger.WarnContext(ctx, "outbox publish failed, will retry",
				"event_id", rec.EventID,
				"event_type", rec.EventType,
				"error", err,
			)
			continue
		}
		if err := r.store.MarkProcessed(ctx, rec.EventID); err != nil {
			return err
		}
		r.logger.InfoContext(ctx, "outbox event relayed",
			"event_id", rec.EventID,
			"event_type", rec.EventType,
			"correlation_id", rec.CorrelationID,
		)
	}
	return nil
}
