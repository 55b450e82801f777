package repository

import (
	"context"

	"news-scraper/internal/domain/entity"
)

// FeedRepository reads feed configurations and lets administrative tools
// register new sources and feeds.
type FeedRepository interface {
	List(ctx context.Context) ([]*entity.Feed, error)
	Count(ctx context.Context) (int64, error)
	// UpsertSource creates the source if its name is unknown and returns its id.
	UpsertSource(ctx context.Context, source *entity.NewsSource) (int64, error)
	// CreateFeed inserts the feed unless its URL exists; it reports whether a row was written.
	CreateFeed(ctx context.Context, feed *entity.Feed) (bool, error)
}

// FlagRepository persists named boolean flags.
type FlagRepository interface {
	// Get returns the flag value, creating it with false when absent.
	Get(ctx context.Context, name string) (bool, error)
	// Set creates the flag if absent and overwrites its value.
	Set(ctx context.Context, name string, value bool) error
}
