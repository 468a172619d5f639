package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/redis/go-redis/v9"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RedisStreamNotifier delivers compensation signals to an external consumer
// over a Redis stream. Delivery is at-least-once; the consumer side owns
// acknowledgment and the actual reversal.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

// NewRedisStreamNotifier connects to the Redis at url and targets stream.
func NewRedisStreamNotifier(url, stream string, logger *slog.Logger) (*RedisStreamNotifier, error) {
	if url == "" || stream == "" {
		return nil, fmt.Errorf("redis notifier: url and stream are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis notifier: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis notifier: connection failed: %w", err)
	}
	return &RedisStreamNotifier{
		client: client,
		stream: stream,
		logger: logger.With("component", "redis-notifier"),
	}, nil
}

// Notify appends the event to the stream wrapped in a typed envelope.
func (n *RedisStreamNotifier) Notify(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis notifier: marshal failed: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: payload})
	if err != nil {
		return fmt.Errorf("redis notifier: envelope marshal failed: %w", err)
	}
	if _, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Result(); err != nil {
		n.logger.Error("failed to append event", "event_type", event.Type(), "error", err)
		return fmt.Errorf("redis notifier: xadd failed: %w", err)
	}
	n.logger.Debug("event appended", "event_type", event.Type(), "stream", n.stream)
	return nil
}

// Close releases the underlying Redis connection.
func (n *RedisStreamNotifier) Close() error {
	return n.client.Close()
}
