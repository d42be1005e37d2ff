// Package publisher hands committed season snapshots to downstream consumers
// over a Redis stream. Publishing is best-effort: the pipeline never depends
// on it succeeding.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/courtside/internal/pipeline"
)

const snapshotStream = "season.snapshots.basketball_nba"

// RedisPublisher publishes snapshots to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishSnapshot appends a committed snapshot to the stream.
func (rp *RedisPublisher) PublishSnapshot(ctx context.Context, snap pipeline.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: snapshotStream,
		Values: map[string]interface{}{
			"data":       string(data),
			"generation": snap.Generation,
			"timestamp":  time.Now().Unix(),
		},
	}).Err()
}
