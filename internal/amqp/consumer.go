// internal/amqp/consumer.go
package amqp

import (
	"context"
	"fmt"
	"log/slog"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one delivery body. A nil return acks the message; an
// error nacks it with requeue so the broker's retry/dead-letter policy takes
// over. Delivery is at-least-once: handlers must be idempotent.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer binds a queue to the exchange and dispatches deliveries to a
// handler.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
	logger  *slog.Logger
}

// NewConsumer dials the broker, declares the queue and binds it to the
// exchange under the configured routing key.
func NewConsumer(cfg Config, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.NotificationQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.NotificationQueue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &Consumer{conn: conn, channel: ch, queue: cfg.NotificationQueue, logger: logger}, nil
}

// Run consumes the queue until the context is canceled.
func (c *Consumer) Run(ctx context.Context, handler HandlerFunc) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", c.queue)
			}
			if err := handler(ctx, d.Body); err != nil {
				c.logger.ErrorContext(ctx, "message handling failed, requeueing",
					"queue", c.queue,
					"error", err,
				)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
