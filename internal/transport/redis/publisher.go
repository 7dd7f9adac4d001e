package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

// Event is the envelope published for every notification. To is empty for
// broadcasts and holds the connection id for targeted events.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	To    string          `json:"to,omitempty"`
}

// Publisher forwards coordinator notifications to a redis channel so other
// processes can follow the table.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func New(logger *slog.Logger, client *redis.Client, keyPrefix string) *Publisher {
	return &Publisher{
		logger:  logger.With("component", "redis-publisher"),
		client:  client,
		channel: Channel(keyPrefix),
	}
}

// Channel returns the pub/sub channel name for a key prefix.
func Channel(keyPrefix string) string {
	return keyPrefix + ":events"
}

// Notify implements tictactoe.Notifier. Failures are logged and dropped.
func (that *Publisher) Notify(ctx context.Context, event string, payload any, audience tictactoe.Audience) {
	if err := that.publish(ctx, event, payload, audience); err != nil {
		that.logger.Error("failed to publish event", "event", event, "error", err)
	}
}

func (that *Publisher) publish(ctx context.Context, event string, payload any, audience tictactoe.Audience) error {
	envelope := Event{
		Event: event,
		To:    audience.ConnectionID,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		envelope.Data = data
	}

	message, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", that.channel, err)
	}

	return nil
}
