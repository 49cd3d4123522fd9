package websocket

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/skillprobe/skillprobe-backend/internal/config"
)

// RedisPublisher fans proctoring events out over Redis Pub/Sub, one channel
// per attempt, for live monitor connections on any instance.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals the event and publishes it on the attempt's channel.
func (p *RedisPublisher) Publish(ctx context.Context, attemptID int64, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, config.CacheKey.AttemptMonitorChannel(attemptID), data).Err()
}
