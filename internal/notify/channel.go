// Package notify reads and clears the single-slot system notification
// an external producer leaves in Redis. At most one notification is
// outstanding; a new producer write before acknowledgment overwrites
// the old one (last write wins, no queueing).
package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/metrics"
)

// SlotKey is the well-known location the producer writes to.
const SlotKey = "augur:notifications:latest"

// Record is one out-of-band system message for the dashboard.
type Record struct {
	Timestamp string `json:"timestamp"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Type      string `json:"type"`
}

// Store is the single-slot persistence the channel reads. Satisfied
// by cache.RedisCache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// Channel consumes the notification slot.
type Channel struct {
	store  Store
	logger *zap.Logger
}

// NewChannel creates a notification channel over the given store.
func NewChannel(store Store, logger *zap.Logger) *Channel {
	return &Channel{store: store, logger: logger}
}

// Poll returns the outstanding notification, or nil when there is
// none. Store and decode failures are non-critical: they are logged
// and swallowed, and the next poll retries.
func (c *Channel) Poll(ctx context.Context) *Record {
	raw, err := c.store.Get(ctx, SlotKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.NotificationPolls.WithLabelValues("empty").Inc()
		} else {
			metrics.NotificationPolls.WithLabelValues("error").Inc()
			c.logger.Warn("failed to read notification slot", zap.Error(err))
		}
		return nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		metrics.NotificationPolls.WithLabelValues("error").Inc()
		c.logger.Warn("discarding malformed notification", zap.Error(err))
		return nil
	}

	metrics.NotificationPolls.WithLabelValues("found").Inc()
	return &rec
}

// Acknowledge clears the slot. Acknowledging with nothing outstanding
// succeeds silently; delete failures are logged and left for the
// producer's next write to supersede.
func (c *Channel) Acknowledge(ctx context.Context) {
	if err := c.store.Delete(ctx, SlotKey); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("failed to clear notification slot", zap.Error(err))
	}
}
