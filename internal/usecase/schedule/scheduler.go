// Package schedule drives feed ingestion. It keeps one timing counter per feed
// and wakes on a drift-corrected tick to run every feed whose interval has
// elapsed.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/observability/logging"
	"news-scraper/internal/observability/tracing"
	"news-scraper/internal/usecase/ingest"
)

// ErrConfigurationMissing is returned when the feed list cannot be loaded on
// the very first resync. The scheduler cannot start without it.
var ErrConfigurationMissing = errors.New("feed configuration unavailable")

// FeedLister loads the configured feeds.
type FeedLister interface {
	List(ctx context.Context) ([]*entity.Feed, error)
}

// FeedRunner ingests a single feed.
type FeedRunner interface {
	RunFeed(ctx context.Context, feed *entity.Feed) (*ingest.RunStats, error)
}

// FeedsFlag is the dirty flag telling the scheduler to reload feeds.
type FeedsFlag interface {
	FeedsModified(ctx context.Context) (bool, error)
	ClearFeedsModified(ctx context.Context) error
}

// Observer receives scheduler measurements.
type Observer interface {
	ObservePass(duration time.Duration, feedsRun int, err error)
	SetTrackedFeeds(n int)
	// SetNextDue reports the time until the next feed is due. scheduled is
	// false when no feed is tracked.
	SetNextDue(d time.Duration, scheduled bool)
	Resynced()
}

type Config struct {
	// TickPeriod is the length of one scheduling tick.
	TickPeriod time.Duration
	// WakeInterval is the sleep between wake-ups of Run.
	WakeInterval time.Duration
	// FeedTimeout bounds one feed ingestion.
	FeedTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickPeriod:   time.Second,
		WakeInterval: time.Second,
		FeedTimeout:  60 * time.Second,
	}
}

type counter struct {
	feed     *entity.Feed
	interval time.Duration
	lastRun  time.Time
}

type Scheduler struct {
	feeds    FeedLister
	runner   FeedRunner
	flags    FeedsFlag
	observer Observer
	cfg      Config
	now      func() time.Time

	counters      map[int64]*counter
	synced        bool
	resyncPending bool

	started     bool
	lastTick    time.Time
	accumulated float64
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

func New(feeds FeedLister, runner FeedRunner, flags FeedsFlag, cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		feeds:    feeds,
		runner:   runner,
		flags:    flags,
		observer: nopObserver{},
		cfg:      cfg,
		now:      time.Now,
		counters: make(map[int64]*counter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks until ctx is cancelled. A pass in progress when ctx is cancelled
// is allowed to finish. Only ErrConfigurationMissing is returned.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler started",
		slog.Duration("tick_period", s.cfg.TickPeriod),
		slog.Duration("wake_interval", s.cfg.WakeInterval))

	for {
		if _, err := s.Tick(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return nil
		case <-time.After(s.cfg.WakeInterval):
		}
	}
}

// RunOnce forces a resync and performs a single pass.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.resyncPending = true
	return s.Pass(ctx)
}

// Tick adds the time elapsed since the previous tick to the tick accumulator
// and performs one pass per whole tick. The first call always performs a pass.
// It returns the number of passes performed.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	now := s.now()
	if !s.started {
		s.started = true
		s.accumulated = 1
	} else {
		s.accumulated += float64(now.Sub(s.lastTick)) / float64(s.cfg.TickPeriod)
	}
	s.lastTick = now

	passes := 0
	for s.accumulated >= 1 {
		if ctx.Err() != nil {
			break
		}
		s.accumulated--
		passes++

		err := s.Pass(context.WithoutCancel(ctx))
		if errors.Is(err, ErrConfigurationMissing) {
			return passes, err
		}
	}
	return passes, nil
}

// Pass performs one scheduling pass: resync when needed, run every due feed
// in ascending id order, then report the time until the next due feed.
// Storage errors abort the pass and are returned.
func (s *Scheduler) Pass(ctx context.Context) (err error) {
	passID := uuid.NewString()
	ctx, span := tracing.GetTracer().Start(ctx, "schedule.Pass",
		trace.WithAttributes(attribute.String("pass.id", passID)))
	defer span.End()

	logger := logging.FromContext(ctx).With(slog.String("pass_id", passID))
	ctx = logging.WithLogger(ctx, logger)

	start := time.Now()
	feedsRun := 0
	defer func() {
		s.observer.ObservePass(time.Since(start), feedsRun, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := s.resync(ctx, logger); err != nil {
		if !s.synced {
			logger.Error("initial feed load failed", slog.Any("error", err))
			return fmt.Errorf("%w: %w", ErrConfigurationMissing, err)
		}
		logger.Warn("feed resync failed, keeping current counters", slog.Any("error", err))
		return fmt.Errorf("resync: %w", err)
	}

	var (
		next      time.Duration
		nextID    int64
		scheduled bool
	)
	for _, id := range s.sortedIDs() {
		c := s.counters[id]

		remaining := c.interval - s.now().Sub(c.lastRun)
		if remaining <= 0 {
			if err := s.runFeed(ctx, logger, c.feed); err != nil {
				return err
			}
			feedsRun++
			c.lastRun = s.now()
			remaining = c.interval
		}

		if !scheduled || remaining < next {
			next, nextID, scheduled = remaining, id, true
		}
	}

	s.observer.SetNextDue(next, scheduled)
	if scheduled {
		logger.Debug("next feed due",
			slog.Int64("feed_id", nextID),
			slog.Duration("in", next))
	} else {
		logger.Info("nothing scheduled")
	}
	return nil
}

// runFeed runs one feed under its own timeout. Feed-level failures are logged
// and swallowed; storage failures are returned.
func (s *Scheduler) runFeed(ctx context.Context, logger *slog.Logger, feed *entity.Feed) error {
	feedLogger := logging.WithFeed(logger, feed)
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FeedTimeout)
	defer cancel()
	fctx = logging.WithLogger(fctx, feedLogger)

	_, err := s.runner.RunFeed(fctx, feed)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ingest.ErrStorage):
		feedLogger.Error("storage failure, aborting pass", slog.Any("error", err))
		return fmt.Errorf("feed %d: %w", feed.ID, err)
	default:
		feedLogger.Warn("feed run failed", slog.Any("error", err))
		return nil
	}
}

// resync reloads the feed list on the first pass, when forced, or when the
// feeds-modified flag is set. The flag is cleared before the list is read so
// that a concurrent edit sets it again and is picked up by the next pass.
func (s *Scheduler) resync(ctx context.Context, logger *slog.Logger) error {
	modified, err := s.flags.FeedsModified(ctx)
	if err != nil {
		return fmt.Errorf("read feeds flag: %w", err)
	}
	if !modified && s.synced && !s.resyncPending {
		return nil
	}

	if modified {
		if err := s.flags.ClearFeedsModified(ctx); err != nil {
			return fmt.Errorf("clear feeds flag: %w", err)
		}
	}
	s.resyncPending = true

	feeds, err := s.feeds.List(ctx)
	if err != nil {
		return fmt.Errorf("list feeds: %w", err)
	}

	added, removed := s.reconcile(logger, feeds)
	s.resyncPending = false
	s.synced = true
	s.observer.SetTrackedFeeds(len(s.counters))
	s.observer.Resynced()

	logger.Info("feeds resynced",
		slog.Int("feeds", len(s.counters)),
		slog.Int("added", added),
		slog.Int("removed", removed))
	return nil
}

// reconcile drops counters for vanished feeds, back-dates counters for new
// feeds so they are due immediately, and updates retained ones.
func (s *Scheduler) reconcile(logger *slog.Logger, feeds []*entity.Feed) (added, removed int) {
	now := s.now()
	seen := make(map[int64]struct{}, len(feeds))

	for _, f := range feeds {
		if err := f.Validate(); err != nil {
			logging.WithFeed(logger, f).Warn("ignoring invalid feed", slog.Any("error", err))
			continue
		}
		seen[f.ID] = struct{}{}

		if c, ok := s.counters[f.ID]; ok {
			c.feed = f
			c.interval = f.Interval()
			continue
		}
		s.counters[f.ID] = &counter{
			feed:     f,
			interval: f.Interval(),
			lastRun:  now.Add(-f.Interval()),
		}
		added++
	}

	for id := range s.counters {
		if _, ok := seen[id]; !ok {
			delete(s.counters, id)
			removed++
		}
	}
	return added, removed
}

func (s *Scheduler) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.counters))
	for id := range s.counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Tracked returns the ids of feeds that currently have a counter.
func (s *Scheduler) Tracked() []int64 {
	return s.sortedIDs()
}

type nopObserver struct{}

func (nopObserver) ObservePass(time.Duration, int, error) {}
func (nopObserver) SetTrackedFeeds(int)                   {}
func (nopObserver) SetNextDue(time.Duration, bool)        {}
func (nopObserver) Resynced()                             {}
