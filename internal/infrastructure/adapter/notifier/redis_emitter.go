package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
)

// DefaultChannel is the pub/sub channel lifecycle events are published to
const DefaultChannel = "lending:notifications"

// RedisEmitter publishes lifecycle notifications to a Redis pub/sub channel
// for downstream consumers (mail relay, dashboard, etc.)
type RedisEmitter struct {
	rdb     *redis.Client
	channel string
}

// NewRedisEmitter creates a Redis pub/sub notification emitter
func NewRedisEmitter(rdb *redis.Client, channel string) *RedisEmitter {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisEmitter{
		rdb:     rdb,
		channel: channel,
	}
}

// Emit publishes the notification as JSON
func (e *RedisEmitter) Emit(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := e.rdb.Publish(ctx, e.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
