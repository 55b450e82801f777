package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed run results.
const (
	ResultSuccess      = "success"
	ResultUnavailable  = "unavailable"
	ResultStorageError = "storage_error"
)

// Ingestion metrics
var (
	FeedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_feed_runs_total",
			Help: "Total number of feed ingestions by result",
		},
		[]string{"result"},
	)

	FeedRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_feed_run_duration_seconds",
			Help:    "Duration of a single feed ingestion",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	ArticlesInsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_articles_inserted_total",
			Help: "Total number of articles created",
		},
	)

	LabelsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_labels_created_total",
			Help: "Total number of label names created",
		},
	)

	EntriesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_entries_skipped_total",
			Help: "Total number of feed entries skipped during normalization",
		},
		[]string{"reason"},
	)

	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetch_errors_total",
			Help: "Total number of feed fetch failures by kind (network, parse, circuit_open)",
		},
		[]string{"kind"},
	)

	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_storage_errors_total",
			Help: "Total number of storage failures by operation",
		},
		[]string{"operation"},
	)
)

// Inventory metrics, refreshed by the stats job
var (
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_articles_total",
			Help: "Total number of articles in the database",
		},
	)

	FeedsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_feeds_total",
			Help: "Total number of configured feeds in the database",
		},
	)
)
