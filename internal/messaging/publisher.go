package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// Publisher publishes order lifecycle events to the fanout exchange.
// Publishing is a fire-and-forget enqueue: it never waits on subscriber
// delivery.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishEvent publishes one event envelope to the order events exchange.
func (p *Publisher) PublishEvent(ctx context.Context, event *models.Event) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		OrderEventsExchange, // exchange
		"",                  // routing key (ignored for fanout)
		false,               // mandatory
		false,               // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish %s event", event.Event),
			"", err, map[string]interface{}{
				"event":       event.Event,
				"target_role": event.Data.TargetRole,
			})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published",
		fmt.Sprintf("Published %s event", event.Event),
		"", map[string]interface{}{
			"event":        event.Event,
			"target_role":  event.Data.TargetRole,
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher's connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
