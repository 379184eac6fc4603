// Package source fetches one refresh cycle's worth of raw prediction
// and outcome data, preferring the live feed and falling back to the
// spreadsheet when the feed is unreachable.
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/derive"
	"github.com/fortuna/augur/internal/metrics"
	"github.com/fortuna/augur/internal/sheets"
)

// Provenance values carried on every fetch result.
const (
	SourceLive     = "live_service"
	SourceFallback = "google_sheets"
)

// Result is one cycle's raw data with explicit provenance. RealTime
// is true only for the live path.
type Result struct {
	Predictions []derive.RawRecord
	Outcomes    []derive.RawRecord
	GeneratedAt time.Time
	Source      string
	RealTime    bool
}

// FeedClient is the live-feed surface the fetcher consumes.
type FeedClient interface {
	CurrentPredictions(ctx context.Context) ([]derive.RawRecord, string, error)
	CurrentResults(ctx context.Context) ([]derive.RawRecord, error)
}

// SheetsClient reads named ranges from the fallback spreadsheet.
type SheetsClient interface {
	Values(ctx context.Context, rangeName string) ([][]string, error)
}

// SheetsFactory resolves credentials and builds a spreadsheet client.
// Credential resolution runs per cycle so a rotated key is picked up
// without a restart; its failure is fatal for that cycle.
type SheetsFactory func(ctx context.Context) (SheetsClient, error)

// Config names the spreadsheet ranges the fallback path reads.
type Config struct {
	PredictionsRange   string
	CoverAnalysisRange string
}

// Fetcher implements the live-then-fallback sourcing policy.
type Fetcher struct {
	feed      FeedClient
	newSheets SheetsFactory
	cfg       Config
	logger    *zap.Logger
}

// NewFetcher creates a source fetcher.
func NewFetcher(feed FeedClient, newSheets SheetsFactory, cfg Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		feed:      feed,
		newSheets: newSheets,
		cfg:       cfg,
		logger:    logger,
	}
}

// FetchCycle tries the live feed first; on any failure there —
// timeout, transport error, non-ok status, malformed payload — it
// falls through silently to the spreadsheet. Only the fallback path
// can fail the cycle.
func (f *Fetcher) FetchCycle(ctx context.Context) (*Result, error) {
	res, err := f.fetchLive(ctx)
	if err == nil {
		metrics.FetchAttempts.WithLabelValues(SourceLive, "ok").Inc()
		return res, nil
	}
	metrics.FetchAttempts.WithLabelValues(SourceLive, "error").Inc()
	f.logger.Warn("live feed unavailable, falling back to sheets", zap.Error(err))

	res, err = f.fetchFallback(ctx)
	if err != nil {
		metrics.FetchAttempts.WithLabelValues(SourceFallback, "error").Inc()
		return nil, err
	}
	metrics.FetchAttempts.WithLabelValues(SourceFallback, "ok").Inc()
	return res, nil
}

func (f *Fetcher) fetchLive(ctx context.Context) (*Result, error) {
	preds, generatedAt, err := f.feed.CurrentPredictions(ctx)
	if err != nil {
		return nil, err
	}

	outcomes, err := f.feed.CurrentResults(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Predictions: preds,
		Outcomes:    outcomes,
		GeneratedAt: parseGeneratedAt(generatedAt),
		Source:      SourceLive,
		RealTime:    true,
	}, nil
}

func (f *Fetcher) fetchFallback(ctx context.Context) (*Result, error) {
	client, err := f.newSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}

	grid, err := client.Values(ctx, f.cfg.PredictionsRange)
	if err != nil {
		return nil, fmt.Errorf("sheets predictions: %w", err)
	}
	preds := sheets.Records(grid, 0)

	// Outcomes degrade to empty rather than failing the cycle.
	var outcomes []derive.RawRecord
	if og, err := client.Values(ctx, f.cfg.CoverAnalysisRange); err != nil {
		f.logger.Warn("cover analysis unavailable, continuing without outcomes", zap.Error(err))
	} else {
		outcomes = sheets.Records(og, sheets.CoverAnalysisHeaderOffset)
	}

	return &Result{
		Predictions: preds,
		Outcomes:    outcomes,
		GeneratedAt: time.Now(),
		Source:      SourceFallback,
		RealTime:    false,
	}, nil
}

// parseGeneratedAt accepts the feed's timestamp, falling back to now
// when it is missing or malformed.
func parseGeneratedAt(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}
