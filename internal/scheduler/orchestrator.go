// Package scheduler owns the refresh loop: it periodically fetches
// raw data, derives the canonical snapshot, and swaps it in
// atomically for consumers. Notification polling runs on its own
// independent cadence and never blocks a data refresh.
package scheduler

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/derive"
	"github.com/fortuna/augur/internal/metrics"
	"github.com/fortuna/augur/internal/notify"
	"github.com/fortuna/augur/internal/performance"
	"github.com/fortuna/augur/internal/source"
)

// Refresh loop states, re-entered every cycle.
const (
	StateIdle     = "idle"
	StateFetching = "fetching"
	StateReady    = "ready"
	StateError    = "error"
)

// snapshotCacheKey is where the last good snapshot is kept so a
// restarted instance can serve stale data until its first cycle.
const snapshotCacheKey = "augur:snapshot:latest"

// Snapshot is the immutable unit published to consumers. Predictions
// and performance always come from the same cycle; a partial update
// is never observable.
type Snapshot struct {
	Predictions []derive.Prediction `json:"predictions"`
	Performance performance.Summary `json:"performance"`
	LastUpdated time.Time           `json:"last_updated"`
	Source      string              `json:"source"`
	RealTime    bool                `json:"real_time"`
}

// Fetcher produces one cycle's raw data.
type Fetcher interface {
	FetchCycle(ctx context.Context) (*source.Result, error)
}

// Publisher pushes a fresh snapshot to downstream consumers.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snapshot interface{}) error
}

// Broadcaster fans a fresh snapshot out to connected clients.
type Broadcaster interface {
	Broadcast(data []byte)
}

// SnapshotCache persists the last good snapshot across restarts.
// Satisfied by cache.RedisCache.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Config holds orchestrator cadences.
type Config struct {
	RefreshInterval          time.Duration // Default: 30s
	NotificationPollInterval time.Duration // Default: 10s
}

// DefaultConfig returns the default cadences.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval:          30 * time.Second,
		NotificationPollInterval: 10 * time.Second,
	}
}

// Orchestrator coordinates refresh and notification cycles.
type Orchestrator struct {
	fetcher     Fetcher
	engine      *derive.Engine
	channel     *notify.Channel
	publisher   Publisher
	broadcaster Broadcaster
	cache       SnapshotCache
	config      *Config
	logger      *zap.Logger

	cancel context.CancelFunc

	// refreshing is the single-flight guard: triggers arriving while
	// a cycle is in flight coalesce into that cycle's result.
	refreshing atomic.Bool

	mu       sync.RWMutex
	state    string
	snapshot *Snapshot
	lastErr  error

	notifMu sync.RWMutex
	pending *notify.Record
}

// NewOrchestrator wires the refresh pipeline. Publisher, broadcaster
// and cache are optional; config nil selects DefaultConfig. If a
// cached snapshot exists it is restored so consumers see stale data
// instead of nothing before the first cycle completes.
func NewOrchestrator(fetcher Fetcher, engine *derive.Engine, channel *notify.Channel, publisher Publisher, broadcaster Broadcaster, cache SnapshotCache, config *Config, logger *zap.Logger) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	o := &Orchestrator{
		fetcher:     fetcher,
		engine:      engine,
		channel:     channel,
		publisher:   publisher,
		broadcaster: broadcaster,
		cache:       cache,
		config:      config,
		logger:      logger,
		state:       StateIdle,
	}
	o.restoreSnapshot()
	return o
}

// Start runs both loops until the context is cancelled. Call it in a
// goroutine; it blocks.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.logger.Info("orchestrator starting",
		zap.Duration("refresh_interval", o.config.RefreshInterval),
		zap.Duration("notification_poll_interval", o.config.NotificationPollInterval))

	go o.runRefreshLoop(ctx)
	go o.runNotificationLoop(ctx)

	<-ctx.Done()
	o.logger.Info("orchestrator stopping")
}

// Stop cancels both loops.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
}

func (o *Orchestrator) runRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(o.config.RefreshInterval)
	defer ticker.Stop()

	// Run immediately on start
	o.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Refresh(ctx)
		}
	}
}

func (o *Orchestrator) runNotificationLoop(ctx context.Context) {
	ticker := time.NewTicker(o.config.NotificationPollInterval)
	defer ticker.Stop()

	o.PollNotifications(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.PollNotifications(ctx)
		}
	}
}

// Refresh runs one fetch-derive-publish cycle. Safe to call from any
// goroutine: while a cycle is in flight further triggers return
// immediately rather than racing a second fetch.
func (o *Orchestrator) Refresh(ctx context.Context) {
	if !o.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer o.refreshing.Store(false)

	o.setState(StateFetching)
	start := time.Now()

	res, err := o.fetcher.FetchCycle(ctx)
	if err != nil {
		// Keep the previous snapshot visible; the next tick retries.
		o.mu.Lock()
		o.lastErr = err
		o.state = StateError
		o.mu.Unlock()

		metrics.RefreshCycles.WithLabelValues(StateError).Inc()
		o.logger.Error("refresh cycle failed, keeping last snapshot", zap.Error(err))
		return
	}

	preds := o.engine.Derive(res.Predictions)
	snap := &Snapshot{
		Predictions: preds,
		Performance: performance.Aggregate(res.Outcomes, len(preds)),
		LastUpdated: res.GeneratedAt,
		Source:      res.Source,
		RealTime:    res.RealTime,
	}

	o.mu.Lock()
	o.snapshot = snap
	o.lastErr = nil
	o.state = StateReady
	o.mu.Unlock()

	metrics.RefreshCycles.WithLabelValues(StateReady).Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	o.logger.Info("refresh cycle complete",
		zap.Int("predictions", len(preds)),
		zap.String("source", res.Source),
		zap.Bool("real_time", res.RealTime),
		zap.Duration("took", time.Since(start)))

	o.publish(ctx, snap)
}

// publish fans the new snapshot out. Downstream failures never fail
// the cycle.
func (o *Orchestrator) publish(ctx context.Context, snap *Snapshot) {
	if o.cache != nil {
		if err := o.cache.SetJSON(ctx, snapshotCacheKey, snap, 0); err != nil {
			o.logger.Warn("failed to cache snapshot", zap.Error(err))
		}
	}

	if o.publisher != nil {
		if err := o.publisher.PublishSnapshot(ctx, snap); err != nil {
			o.logger.Warn("failed to publish snapshot to stream", zap.Error(err))
		}
	}

	if o.broadcaster != nil {
		data, err := json.Marshal(snap)
		if err == nil {
			o.broadcaster.Broadcast(data)
		}
	}
}

// PollNotifications checks the notification slot once. The
// notification loop calls it on its own cadence, independent of data
// refreshes.
func (o *Orchestrator) PollNotifications(ctx context.Context) {
	rec := o.channel.Poll(ctx)

	o.notifMu.Lock()
	o.pending = rec
	o.notifMu.Unlock()
}

// restoreSnapshot loads the cached snapshot, if any. Best effort: any
// failure leaves the orchestrator empty until the first cycle.
func (o *Orchestrator) restoreSnapshot() {
	if o.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := o.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		return
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		o.logger.Warn("discarding malformed cached snapshot", zap.Error(err))
		return
	}

	// Cached data is by definition not real time anymore.
	snap.RealTime = false

	o.mu.Lock()
	o.snapshot = &snap
	o.mu.Unlock()

	o.logger.Info("restored cached snapshot",
		zap.Int("predictions", len(snap.Predictions)),
		zap.Time("last_updated", snap.LastUpdated))
}

func (o *Orchestrator) setState(s string) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Snapshot returns the latest published snapshot (nil before the
// first successful cycle) and the last cycle error, if any. A stale
// snapshot and an error can coexist.
func (o *Orchestrator) Snapshot() (*Snapshot, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot, o.lastErr
}

// State returns the current refresh loop state.
func (o *Orchestrator) State() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Notification returns the most recently polled notification, or nil.
func (o *Orchestrator) Notification() *notify.Record {
	o.notifMu.RLock()
	defer o.notifMu.RUnlock()
	return o.pending
}

// AcknowledgeNotification clears the slot and the local pending copy.
// Idempotent.
func (o *Orchestrator) AcknowledgeNotification(ctx context.Context) {
	o.channel.Acknowledge(ctx)

	o.notifMu.Lock()
	o.pending = nil
	o.notifMu.Unlock()
}

// Status reports the orchestrator's configuration and current state.
func (o *Orchestrator) Status() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := map[string]interface{}{
		"state":                      o.state,
		"refresh_interval":           o.config.RefreshInterval.String(),
		"notification_poll_interval": o.config.NotificationPollInterval.String(),
		"has_snapshot":               o.snapshot != nil,
	}
	if o.snapshot != nil {
		status["last_updated"] = o.snapshot.LastUpdated
		status["source"] = o.snapshot.Source
	}
	if o.lastErr != nil {
		status["last_error"] = o.lastErr.Error()
	}
	return status
}
