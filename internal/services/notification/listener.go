package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/messaging"
	"restaurant-platform/internal/models"
)

// Broadcaster delivers a message to every live session of a role.
type Broadcaster interface {
	BroadcastToRole(message interface{}, role models.StaffRole)
}

// Listener is the long-lived background task that consumes order events
// from the bus and forwards them to the connection registry. One
// listener runs per process, started at service startup and cancelled
// cooperatively at shutdown.
type Listener struct {
	consumer *messaging.Consumer
	registry Broadcaster
	logger   *logger.Logger
}

// NewListener creates a bus listener forwarding into the registry.
func NewListener(consumer *messaging.Consumer, registry Broadcaster, log *logger.Logger) *Listener {
	return &Listener{
		consumer: consumer,
		registry: registry,
		logger:   log,
	}
}

// Run blocks consuming events until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	err := l.consumer.StartConsuming(ctx, l.handleEvent)
	if err == context.Canceled {
		return nil
	}
	return err
}

func (l *Listener) handleEvent(ctx context.Context, body []byte) error {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	role := event.Data.TargetRole
	if !role.Valid() {
		return fmt.Errorf("event %q has unknown target role %q", event.Event, role)
	}

	l.logger.Debug("event_received", "Forwarding event to push clients", "", map[string]interface{}{
		"event":       event.Event,
		"target_role": role,
	})

	l.registry.BroadcastToRole(&event, role)
	return nil
}
