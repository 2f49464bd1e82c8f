// internal/amqp/producer.go
package amqp

import (
	"context"
	"fmt"
	"log/slog"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// Config names the broker topology. These are configuration inputs, not part
// of any algorithm; defaults match the docker-compose development setup.
type Config struct {
	URL              string
	Exchange         string
	NotificationQueue string
	RoutingKey       string
}

// Producer publishes messages to a topic exchange. One producer is shared per
// process; amqp091 channels are not safe for concurrent publishes, so Publish
// serializes through the connection's confirm-less channel.
type Producer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger
}

// NewProducer dials the broker and declares the exchange.
func NewProducer(cfg Config, logger *slog.Logger) (*Producer, error) {
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

	return &Producer{conn: conn, channel: ch, exchange: cfg.Exchange, logger: logger}, nil
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (p *Producer) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", p.exchange, routingKey, err)
	}

	p.logger.DebugContext(ctx, "message published",
		"exchange", p.exchange,
		"routing_key", routingKey,
	)
	return nil
}

func (p *Producer) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
