package worker

import (
	"fmt"
	"log/slog"
	"time"

	"news-scraper/internal/infra/scraper"
	"news-scraper/internal/pkg/config"
	"news-scraper/internal/usecase/schedule"
)

// WorkerConfig holds the settings of the long-running scraper process.
//
// Environment variables (all optional):
//   - SCHEDULER_TICK_PERIOD, SCHEDULER_WAKE_INTERVAL, SCHEDULER_FEED_TIMEOUT
//   - SCHEDULER_DEFAULT_INTERVAL_MINUTES
//   - FETCH_TIMEOUT, FETCH_MAX_BODY_BYTES, FETCH_USER_AGENT,
//     FETCH_RATE_PER_SECOND, FETCH_RETRY_ATTEMPTS, FETCH_DENY_PRIVATE_IPS
//   - STATS_CRON_SCHEDULE, STATS_TIMEZONE
//   - HEALTH_PORT
//
// Invalid values never abort startup: the default is kept, a warning is
// logged and the config fallback metrics are updated.
type WorkerConfig struct {
	TickPeriod   time.Duration
	WakeInterval time.Duration
	FeedTimeout  time.Duration

	// DefaultIntervalMinutes is used by seed for feeds without an interval.
	DefaultIntervalMinutes int

	Fetch scraper.Config

	// StatsCronSchedule drives the inventory gauge refresh.
	// Format: "minute hour day month weekday"
	StatsCronSchedule string
	StatsTimezone     string

	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

func DefaultConfig() WorkerConfig {
	sched := schedule.DefaultConfig()
	return WorkerConfig{
		TickPeriod:             sched.TickPeriod,
		WakeInterval:           sched.WakeInterval,
		FeedTimeout:            sched.FeedTimeout,
		DefaultIntervalMinutes: 60,
		Fetch:                  scraper.DefaultConfig(),
		StatsCronSchedule:      "*/5 * * * *",
		StatsTimezone:          "UTC",
		HealthPort:             9091,
	}
}

// Scheduler returns the scheduling subset of the configuration.
func (c *WorkerConfig) Scheduler() schedule.Config {
	return schedule.Config{
		TickPeriod:   c.TickPeriod,
		WakeInterval: c.WakeInterval,
		FeedTimeout:  c.FeedTimeout,
	}
}

// Location resolves StatsTimezone, falling back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate collects every invalid field into one error.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateDuration(c.TickPeriod, 10*time.Millisecond, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("tick period: %w", err))
	}
	if err := config.ValidateDuration(c.WakeInterval, 10*time.Millisecond, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("wake interval: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.FeedTimeout); err != nil {
		errs = append(errs, fmt.Errorf("feed timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.DefaultIntervalMinutes, 1, 7*24*60); err != nil {
		errs = append(errs, fmt.Errorf("default interval: %w", err))
	}
	if err := c.Fetch.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("fetch: %w", err))
	}
	if err := config.ValidateCronSchedule(c.StatsCronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("stats cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.StatsTimezone); err != nil {
		errs = append(errs, fmt.Errorf("stats timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the configuration with per-field fallback to
// defaults. The returned config is always valid; err is always nil.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallback := false

	durationIn := func(min, max time.Duration) func(time.Duration) error {
		return func(d time.Duration) error { return config.ValidateDuration(d, min, max) }
	}

	result := config.LoadEnvDuration("SCHEDULER_TICK_PERIOD", cfg.TickPeriod, durationIn(10*time.Millisecond, time.Hour))
	cfg.TickPeriod = result.Value.(time.Duration)
	fallback = metrics.Observe(logger, "tick_period", result) || fallback

	result = config.LoadEnvDuration("SCHEDULER_WAKE_INTERVAL", cfg.WakeInterval, durationIn(10*time.Millisecond, time.Hour))
	cfg.WakeInterval = result.Value.(time.Duration)
	fallback = metrics.Observe(logger, "wake_interval", result) || fallback

	result = config.LoadEnvDuration("SCHEDULER_FEED_TIMEOUT", cfg.FeedTimeout, durationIn(time.Second, time.Hour))
	cfg.FeedTimeout = result.Value.(time.Duration)
	fallback = metrics.Observe(logger, "feed_timeout", result) || fallback

	result = config.LoadEnvInt("SCHEDULER_DEFAULT_INTERVAL_MINUTES", cfg.DefaultIntervalMinutes, func(v int) error {
		return config.ValidateIntRange(v, 1, 7*24*60)
	})
	cfg.DefaultIntervalMinutes = result.Value.(int)
	fallback = metrics.Observe(logger, "default_interval_minutes", result) || fallback

	result = config.LoadEnvDuration("FETCH_TIMEOUT", cfg.Fetch.Timeout, durationIn(time.Second, 5*time.Minute))
	cfg.Fetch.Timeout = result.Value.(time.Duration)
	fallback = metrics.Observe(logger, "fetch_timeout", result) || fallback

	result = config.LoadEnvInt64("FETCH_MAX_BODY_BYTES", cfg.Fetch.MaxBodySize, func(v int64) error {
		return config.ValidateInt64Range(v, 1024, 100*1024*1024)
	})
	cfg.Fetch.MaxBodySize = result.Value.(int64)
	fallback = metrics.Observe(logger, "fetch_max_body_bytes", result) || fallback

	cfg.Fetch.UserAgent = config.LoadEnvString("FETCH_USER_AGENT", cfg.Fetch.UserAgent)

	result = config.LoadEnvFloat("FETCH_RATE_PER_SECOND", cfg.Fetch.RatePerSecond, func(v float64) error {
		return config.ValidateFloatRange(v, 0.01, 1000)
	})
	cfg.Fetch.RatePerSecond = result.Value.(float64)
	fallback = metrics.Observe(logger, "fetch_rate_per_second", result) || fallback

	result = config.LoadEnvInt("FETCH_RETRY_ATTEMPTS", cfg.Fetch.RetryAttempts, func(v int) error {
		return config.ValidateIntRange(v, 1, 10)
	})
	cfg.Fetch.RetryAttempts = result.Value.(int)
	fallback = metrics.Observe(logger, "fetch_retry_attempts", result) || fallback

	result = config.LoadEnvBool("FETCH_DENY_PRIVATE_IPS", cfg.Fetch.DenyPrivateIPs)
	cfg.Fetch.DenyPrivateIPs = result.Value.(bool)
	fallback = metrics.Observe(logger, "fetch_deny_private_ips", result) || fallback

	result = config.LoadEnvWithFallback("STATS_CRON_SCHEDULE", cfg.StatsCronSchedule, config.ValidateCronSchedule)
	cfg.StatsCronSchedule = result.Value.(string)
	fallback = metrics.Observe(logger, "stats_cron_schedule", result) || fallback

	result = config.LoadEnvWithFallback("STATS_TIMEZONE", cfg.StatsTimezone, config.ValidateTimezone)
	cfg.StatsTimezone = result.Value.(string)
	fallback = metrics.Observe(logger, "stats_timezone", result) || fallback

	result = config.LoadEnvInt("HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	fallback = metrics.Observe(logger, "health_port", result) || fallback

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
