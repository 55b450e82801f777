package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"news-scraper/internal/pkg/config"
)

// WorkerMetrics holds the scheduler metrics of the scraper process and the
// configuration fallback metrics. It implements schedule.Observer.
//
// promauto registers on the default registry, so NewWorkerMetrics must be
// called once per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	PassesTotal *prometheus.CounterVec

	PassDurationSeconds prometheus.Histogram

	FeedsRunTotal prometheus.Counter

	TrackedFeeds prometheus.Gauge

	// NextDueSeconds is -1 while no feed is scheduled.
	NextDueSeconds prometheus.Gauge

	ResyncsTotal prometheus.Counter

	LastPassTimestamp prometheus.Gauge

	onResync func()
}

func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		PassesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_passes_total",
			Help: "Total number of scheduling passes by status (success/failure)",
		}, []string{"status"}),

		PassDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_pass_duration_seconds",
			Help:    "Duration of one scheduling pass in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 60, 300},
		}),

		FeedsRunTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_feeds_run_total",
			Help: "Total number of feed ingestions started by the scheduler",
		}),

		TrackedFeeds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_tracked_feeds",
			Help: "Number of feeds currently tracked by the scheduler",
		}),

		NextDueSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_next_due_seconds",
			Help: "Seconds until the next feed is due, -1 when none is scheduled",
		}),

		ResyncsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_resyncs_total",
			Help: "Total number of successful feed configuration reloads",
		}),

		LastPassTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_last_pass_timestamp",
			Help: "Unix timestamp of the last successful scheduling pass",
		}),
	}
}

// OnResync registers fn to run after every successful resync.
func (m *WorkerMetrics) OnResync(fn func()) {
	m.onResync = fn
}

func (m *WorkerMetrics) ObservePass(d time.Duration, feedsRun int, err error) {
	m.PassDurationSeconds.Observe(d.Seconds())
	m.FeedsRunTotal.Add(float64(feedsRun))
	if err != nil {
		m.PassesTotal.WithLabelValues("failure").Inc()
		return
	}
	m.PassesTotal.WithLabelValues("success").Inc()
	m.LastPassTimestamp.SetToCurrentTime()
}

func (m *WorkerMetrics) SetTrackedFeeds(n int) {
	m.TrackedFeeds.Set(float64(n))
}

func (m *WorkerMetrics) SetNextDue(d time.Duration, scheduled bool) {
	if !scheduled {
		m.NextDueSeconds.Set(-1)
		return
	}
	m.NextDueSeconds.Set(d.Seconds())
}

func (m *WorkerMetrics) Resynced() {
	m.ResyncsTotal.Inc()
	if m.onResync != nil {
		m.onResync()
	}
}
