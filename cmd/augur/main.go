package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/api/rest"
	"github.com/fortuna/augur/internal/api/websocket"
	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/derive"
	"github.com/fortuna/augur/internal/feed"
	"github.com/fortuna/augur/internal/logger"
	"github.com/fortuna/augur/internal/metrics"
	"github.com/fortuna/augur/internal/notify"
	"github.com/fortuna/augur/internal/publisher"
	"github.com/fortuna/augur/internal/scheduler"
	"github.com/fortuna/augur/internal/sheets"
	"github.com/fortuna/augur/internal/source"
)

const serviceName = "augur"

func main() {
	// Load configuration from file and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(serviceName, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting augur",
		zap.String("feed_base_url", cfg.Feed.BaseURL),
		zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))

	// Connect Redis with retry; the notification slot and snapshot
	// cache live there.
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			zl.Warn("redis connection failed, retrying",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", maxRetries),
				zap.Error(err))
			time.Sleep(retryDelay)
		} else {
			zl.Fatal("failed to connect to redis", zap.Int("attempts", maxRetries), zap.Error(err))
		}
	}
	defer redisCache.Close()

	zl.Info("connected to redis")

	// Source fetcher: live feed first, spreadsheet fallback.
	feedClient := feed.New(cfg.Feed.BaseURL, cfg.Feed.Timeout)

	newSheets := func(ctx context.Context) (source.SheetsClient, error) {
		creds, err := sheets.ResolveCredentials(cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return sheets.NewClient(cfg.Sheets.SpreadsheetID, creds), nil
	}

	fetcher := source.NewFetcher(feedClient, newSheets, source.Config{
		PredictionsRange:   cfg.Sheets.PredictionsRange,
		CoverAnalysisRange: cfg.Sheets.CoverAnalysisRange,
	}, zl)

	// Notification channel over the Redis slot.
	channel := notify.NewChannel(redisCache, zl)

	// Snapshot stream publisher.
	streamPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	// WebSocket server (also the orchestrator's broadcaster).
	wsServer := websocket.NewServer(zl)

	// Orchestrator.
	orch := scheduler.NewOrchestrator(
		fetcher,
		derive.NewEngine(nil),
		channel,
		streamPublisher,
		wsServer,
		redisCache,
		&scheduler.Config{
			RefreshInterval:          cfg.RefreshInterval,
			NotificationPollInterval: cfg.NotificationPollInterval,
		},
		zl,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go orch.Start(ctx)
	zl.Info("orchestrator started")

	// Metrics and healthz on their own port.
	metricsServer := metrics.StartServer(cfg.MetricsPort, redisCache.HealthCheck)
	zl.Info("metrics server listening", zap.String("port", cfg.MetricsPort))

	// REST API.
	restServer := rest.NewServer(cfg.RESTPort, orch, zl)
	go func() {
		if err := restServer.Start(); err != nil {
			zl.Warn("rest server stopped", zap.Error(err))
		}
	}()
	zl.Info("rest server listening", zap.String("port", cfg.RESTPort))

	// WebSocket push.
	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil {
			zl.Warn("websocket server stopped", zap.Error(err))
		}
	}()
	zl.Info("websocket server listening", zap.String("port", cfg.WSPort))

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zl.Info("shutting down")

	cancel()
	orch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("rest server shutdown error", zap.Error(err))
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("websocket server shutdown error", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("metrics server shutdown error", zap.Error(err))
	}

	zl.Info("augur stopped")
}
