package repository

import (
	"context"

	"news-scraper/internal/domain/entity"
)

// ArticleRepository writes articles and their label links with create-if-absent
// semantics. Existing rows are never updated.
type ArticleRepository interface {
	// UpsertBatch inserts articles whose URL is unknown and returns the number inserted.
	UpsertBatch(ctx context.Context, articles []*entity.Article) (int64, error)
	// FindIDsByURL resolves article URLs to ids; unknown URLs are absent from the map.
	FindIDsByURL(ctx context.Context, urls []string) (map[string]int64, error)
	// UpsertLabelsBatch inserts missing (article id, label) pairs and returns the number inserted.
	UpsertLabelsBatch(ctx context.Context, links []entity.ArticleLabel) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// LabelRepository creates label names on first sight.
type LabelRepository interface {
	// UpsertBatch inserts unknown label names and returns the number inserted.
	UpsertBatch(ctx context.Context, names []string) (int64, error)
}
