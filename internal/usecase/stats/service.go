// Package stats refreshes the inventory gauges on a cron schedule.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"news-scraper/internal/observability/metrics"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ArticlesFlag reads the articles dirty flag.
type ArticlesFlag interface {
	ArticlesModified(ctx context.Context) (bool, error)
}

type Snapshot struct {
	Articles         int64
	Feeds            int64
	ArticlesModified bool
}

type Service struct {
	Articles Counter
	Feeds    Counter
	Flags    ArticlesFlag
	Timeout  time.Duration
}

func NewService(articles, feeds Counter, flags ArticlesFlag) *Service {
	return &Service{Articles: articles, Feeds: feeds, Flags: flags, Timeout: 30 * time.Second}
}

// Refresh counts articles and feeds and publishes the totals as gauges.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	articles, err := s.Articles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	feeds, err := s.Feeds.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count feeds: %w", err)
	}
	modified, err := s.Flags.ArticlesModified(ctx)
	if err != nil {
		return nil, err
	}

	metrics.UpdateArticlesTotal(articles)
	metrics.UpdateFeedsTotal(feeds)

	snap := &Snapshot{Articles: articles, Feeds: feeds, ArticlesModified: modified}
	slog.Info("inventory refreshed",
		slog.Int64("articles", articles),
		slog.Int64("feeds", feeds),
		slog.Bool("articles_modified", modified))
	return snap, nil
}

// Schedule builds a cron runner that calls Refresh on spec in loc. The
// caller starts and stops it.
func (s *Service) Schedule(ctx context.Context, spec string, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()
		if _, err := s.Refresh(runCtx); err != nil {
			slog.Warn("inventory refresh failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule stats job %q: %w", spec, err)
	}
	return c, nil
}
