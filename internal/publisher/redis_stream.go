// Package publisher pushes fresh snapshots onto a Redis stream for
// downstream consumers (alerting, archival, other dashboards).
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotStream is the stream fresh snapshots are appended to.
const SnapshotStream = "predictions.snapshots"

// maxStreamLength caps the stream so slow consumers cannot grow it
// unboundedly.
const maxStreamLength = 100

// RedisStreamPublisher publishes snapshot events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishSnapshot appends one snapshot to the stream.
func (p *RedisStreamPublisher) PublishSnapshot(ctx context.Context, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: SnapshotStream,
		MaxLen: maxStreamLength,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
