package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/observability/logging"
	"news-scraper/internal/observability/metrics"
	"news-scraper/internal/observability/tracing"
	"news-scraper/internal/repository"
)

// FeedFetcher downloads and parses a feed document.
type FeedFetcher interface {
	FetchAndParse(ctx context.Context, url string) (*entity.RawFeed, error)
}

// ArticlesMarker records that stored articles changed.
type ArticlesMarker interface {
	MarkArticlesModified(ctx context.Context) error
}

type Service struct {
	Fetcher  FeedFetcher
	Articles repository.ArticleRepository
	Labels   repository.LabelRepository
	Flags    ArticlesMarker
}

func NewService(
	fetcher FeedFetcher,
	articles repository.ArticleRepository,
	labels repository.LabelRepository,
	flags ArticlesMarker,
) *Service {
	return &Service{
		Fetcher:  fetcher,
		Articles: articles,
		Labels:   labels,
		Flags:    flags,
	}
}

// RunStats summarizes one feed ingestion.
type RunStats struct {
	Entries          int
	Skipped          int
	ArticlesInserted int64
	LabelsCreated    int64
	LinksInserted    int64
	Duration         time.Duration
}

func (s *RunStats) written() bool {
	return s.ArticlesInserted+s.LabelsCreated+s.LinksInserted > 0
}

// RunFeed fetches feed, normalizes its entries and stores what is new.
// Fetch and parse failures return ErrFeedUnavailable without writing anything.
// Persistence failures return ErrStorage. Invalid entries are skipped.
func (s *Service) RunFeed(ctx context.Context, feed *entity.Feed) (stats *RunStats, err error) {
	ctx, span := tracing.GetTracer().Start(ctx, "ingest.RunFeed",
		trace.WithAttributes(
			attribute.Int64("feed.id", feed.ID),
			attribute.String("feed.url", feed.URL),
		))
	defer span.End()

	logger := logging.WithFeed(logging.FromContext(ctx), feed)
	start := time.Now()
	stats = &RunStats{}

	defer func() {
		stats.Duration = time.Since(start)
		metrics.RecordFeedRun(resultLabel(err), stats.Duration)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	raw, err := s.Fetcher.FetchAndParse(ctx, feed.URL)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	stats.Entries = len(raw.Entries)

	candidates := make([]Candidate, 0, len(raw.Entries))
	for i, e := range raw.Entries {
		c, err := Normalize(e)
		if err != nil {
			stats.Skipped++
			metrics.RecordEntrySkipped(skipReason(err))
			logger.Debug("entry skipped",
				slog.Int("index", i),
				slog.String("title", e.Title),
				slog.Any("error", err))
			continue
		}
		candidates = append(candidates, c)
	}

	// 同一文書内の重複URLは最初のエントリを採用
	candidates = lo.UniqBy(candidates, func(c Candidate) string { return c.URL })

	if err := s.persist(ctx, feed, candidates, stats); err != nil {
		return stats, err
	}

	if stats.written() {
		if err := s.Flags.MarkArticlesModified(ctx); err != nil {
			metrics.RecordStorageError("flags")
			return stats, fmt.Errorf("%w: mark articles modified: %w", ErrStorage, err)
		}
	}

	span.SetAttributes(
		attribute.Int64("articles.inserted", stats.ArticlesInserted),
		attribute.Int("entries.skipped", stats.Skipped),
	)
	logger.Info("feed ingested",
		slog.Int("entries", stats.Entries),
		slog.Int64("inserted", stats.ArticlesInserted),
		slog.Int64("labels_created", stats.LabelsCreated),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("duration", time.Since(start)))
	return stats, nil
}

// persist writes labels, then articles, then the article-label pairs.
func (s *Service) persist(ctx context.Context, feed *entity.Feed, candidates []Candidate, stats *RunStats) error {
	if len(candidates) == 0 {
		return nil
	}

	labels := lo.Uniq(lo.FlatMap(candidates, func(c Candidate, _ int) []string { return c.Labels }))
	if len(labels) > 0 {
		n, err := s.Labels.UpsertBatch(ctx, labels)
		if err != nil {
			metrics.RecordStorageError("labels")
			return fmt.Errorf("%w: upsert labels: %w", ErrStorage, err)
		}
		stats.LabelsCreated = n
		metrics.RecordLabelsCreated(int(n))
	}

	articles := lo.Map(candidates, func(c Candidate, _ int) *entity.Article { return c.Article(feed.SourceID) })
	n, err := s.Articles.UpsertBatch(ctx, articles)
	if err != nil {
		metrics.RecordStorageError("articles")
		return fmt.Errorf("%w: upsert articles: %w", ErrStorage, err)
	}
	stats.ArticlesInserted = n
	metrics.RecordArticlesInserted(int(n))

	var refs []entity.ArticleLabelRef
	for _, c := range candidates {
		for _, l := range lo.Uniq(c.Labels) {
			refs = append(refs, entity.ArticleLabelRef{ArticleURL: c.URL, Label: l})
		}
	}
	if len(refs) == 0 {
		return nil
	}

	urls := lo.Uniq(lo.Map(refs, func(r entity.ArticleLabelRef, _ int) string { return r.ArticleURL }))
	ids, err := s.Articles.FindIDsByURL(ctx, urls)
	if err != nil {
		metrics.RecordStorageError("article_ids")
		return fmt.Errorf("%w: resolve article ids: %w", ErrStorage, err)
	}

	links := lo.FilterMap(refs, func(r entity.ArticleLabelRef, _ int) (entity.ArticleLabel, bool) {
		id, ok := ids[r.ArticleURL]
		return entity.ArticleLabel{ArticleID: id, Label: r.Label}, ok
	})
	if len(links) == 0 {
		return nil
	}

	n, err = s.Articles.UpsertLabelsBatch(ctx, links)
	if err != nil {
		metrics.RecordStorageError("article_labels")
		return fmt.Errorf("%w: upsert article labels: %w", ErrStorage, err)
	}
	stats.LinksInserted = n
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrFeedUnavailable):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultStorageError
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingLink):
		return "missing_link"
	case errors.Is(err, ErrMissingTitle):
		return "missing_title"
	default:
		return "other"
	}
}
