// Package postgres implements the repositories on PostgreSQL through the pgx
// database/sql driver. Batch lookups bind Go slices as arrays with pq.Array.
package postgres

import (
	"context"
	"fmt"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/infra/db"
	"news-scraper/internal/repository"
)

type FeedRepo struct{ db db.Conn }

func NewFeedRepo(conn db.Conn) repository.FeedRepository {
	return &FeedRepo{db: conn}
}

func (repo *FeedRepo) List(ctx context.Context) ([]*entity.Feed, error) {
	const query = `
SELECT id, source_id, url, interval_minutes
FROM rss_feeds
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var feeds []*entity.Feed
	for rows.Next() {
		var f entity.Feed
		if err := rows.Scan(&f.ID, &f.SourceID, &f.URL, &f.IntervalMinutes); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		feeds = append(feeds, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return feeds, nil
}

func (repo *FeedRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM rss_feeds`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// UpsertSource returns the id of the source named source.Name, creating it
// if needed. An existing source keeps its URL.
func (repo *FeedRepo) UpsertSource(ctx context.Context, source *entity.NewsSource) (int64, error) {
	const query = `
INSERT INTO news_sources (name, url)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`
	var id int64
	if err := repo.db.QueryRowContext(ctx, query, source.Name, source.URL).Scan(&id); err != nil {
		return 0, fmt.Errorf("UpsertSource: %w", err)
	}
	source.ID = id
	return id, nil
}

func (repo *FeedRepo) CreateFeed(ctx context.Context, feed *entity.Feed) (bool, error) {
	const query = `
INSERT INTO rss_feeds (source_id, url, interval_minutes)
VALUES ($1, $2, $3)
ON CONFLICT (url) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, feed.SourceID, feed.URL, feed.IntervalMinutes)
	if err != nil {
		return false, fmt.Errorf("CreateFeed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("CreateFeed: RowsAffected: %w", err)
	}
	return n > 0, nil
}
