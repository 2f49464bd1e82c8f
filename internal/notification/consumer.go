// internal/notification/consumer.go
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"veriboard/internal/bulkhead"
)

// Consumer turns queue deliveries into notification sends. Errors other than
// duplicates propagate to the message channel, which nacks and redelivers;
// duplicates are already swallowed by the service.
type Consumer struct {
	service Service
	pool    *bulkhead.Pool
	logger  *slog.Logger
}

func NewConsumer(service Service, pool *bulkhead.Pool, logger *slog.Logger) *Consumer {
	return &Consumer{service: service, pool: pool, logger: logger}
}

// Handle processes one raw queue message. Malformed payloads are dropped
// rather than requeued: redelivery cannot fix a bad message.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		c.logger.ErrorContext(ctx, "dropping malformed notification message", "error", err)
		return nil
	}

	c.logger.InfoContext(ctx, "consumed notification request",
		"customer_id", req.ToCustomerID,
	)

	err := c.pool.Execute(ctx, func() error {
		return c.service.Send(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("process notification for customer %s: %w", req.ToCustomerID, err)
	}
	return nil
}
