// Package metrics exposes Prometheus instrumentation for the refresh
// pipeline and its sources.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts counts source fetches by source and outcome.
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_fetch_attempts_total",
			Help: "Source fetch attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// RefreshCycles counts completed refresh cycles by terminal state.
	RefreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_refresh_cycles_total",
			Help: "Refresh cycles by terminal state (ready/error)",
		},
		[]string{"state"},
	)

	// RefreshDuration observes the wall time of a full refresh cycle.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "augur_refresh_duration_seconds",
			Help:    "Time to fetch, derive and publish one snapshot",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// NotificationPolls counts notification slot polls by outcome.
	NotificationPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_notification_polls_total",
			Help: "Notification slot polls by outcome (found/empty/error)",
		},
		[]string{"outcome"},
	)
)
