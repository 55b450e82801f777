package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/lo"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/infra/db"
	"news-scraper/internal/repository"
)

const articleColumns = 6

type ArticleRepo struct{ db db.Conn }

func NewArticleRepo(conn db.Conn) repository.ArticleRepository {
	return &ArticleRepo{db: conn}
}

// UpsertBatch writes multi-row INSERTs inside one transaction, sized to stay
// under the placeholder limit. Existing URLs are skipped.
func (repo *ArticleRepo) UpsertBatch(ctx context.Context, articles []*entity.Article) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	var inserted int64
	err := db.WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		for _, chunk := range lo.Chunk(articles, maxPlaceholders/articleColumns) {
			query := fmt.Sprintf(`
INSERT INTO news_articles
       (source_id, url, title, description, photo, published_at)
VALUES %s
ON CONFLICT (url) DO NOTHING`, valuesList(len(chunk), articleColumns))

			args := make([]any, 0, len(chunk)*articleColumns)
			for _, a := range chunk {
				args = append(args,
					a.SourceID, a.URL, a.Title,
					nullable(a.Description), nullable(a.Photo), nullable(a.PublishedAt),
				)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("UpsertBatch: %w", err)
	}
	return inserted, nil
}

func (repo *ArticleRepo) FindIDsByURL(ctx context.Context, urls []string) (map[string]int64, error) {
	result := make(map[string]int64, len(urls))
	for _, chunk := range lo.Chunk(urls, maxPlaceholders) {
		query := fmt.Sprintf(`SELECT id, url FROM news_articles WHERE url IN (%s)`, inList(len(chunk)))
		if err := repo.collectIDs(ctx, query, lo.ToAnySlice(chunk), result); err != nil {
			return nil, fmt.Errorf("FindIDsByURL: %w", err)
		}
	}
	return result, nil
}

func (repo *ArticleRepo) collectIDs(ctx context.Context, query string, args []any, into map[string]int64) error {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id  int64
			url string
		)
		if err := rows.Scan(&id, &url); err != nil {
			return fmt.Errorf("Scan: %w", err)
		}
		into[url] = id
	}
	return rows.Err()
}

func (repo *ArticleRepo) UpsertLabelsBatch(ctx context.Context, links []entity.ArticleLabel) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	var inserted int64
	err := db.WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		for _, chunk := range lo.Chunk(links, maxPlaceholders/2) {
			query := fmt.Sprintf(`
INSERT INTO news_article_labels (article_id, label)
VALUES %s
ON CONFLICT (article_id, label) DO NOTHING`, valuesList(len(chunk), 2))

			args := make([]any, 0, len(chunk)*2)
			for _, l := range chunk {
				args = append(args, l.ArticleID, l.Label)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("UpsertLabelsBatch: %w", err)
	}
	return inserted, nil
}

func (repo *ArticleRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
