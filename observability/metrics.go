package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentals_feed_loads_total",
		Help: "Feed load attempts by source and outcome",
	}, []string{"source", "outcome"})

	FeedLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentals_feed_load_duration_seconds",
		Help:    "Duration of feed loads",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
	}, []string{"source"})

	FeedRowsShort = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentals_feed_rows_short_total",
		Help: "Feed rows with fewer cells than the header",
	})

	ListingsCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentals_listings_current",
		Help: "Number of listings in the published collection",
	})

	StaleLoadsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentals_stale_loads_discarded_total",
		Help: "Completed loads dropped because a newer load started or the session closed",
	})

	QueryEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentals_query_evaluations_total",
		Help: "Listing queries served over HTTP",
	})
)

// Outcome labels for FeedLoadsTotal.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
	OutcomeError      = "error"
)
