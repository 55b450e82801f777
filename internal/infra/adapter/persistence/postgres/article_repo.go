package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/samber/lo"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/infra/db"
	"news-scraper/internal/repository"
)

type ArticleRepo struct{ db db.Conn }

func NewArticleRepo(conn db.Conn) repository.ArticleRepository {
	return &ArticleRepo{db: conn}
}

// UpsertBatch inserts the articles in one transaction. Rows whose URL already
// exists are left untouched.
func (repo *ArticleRepo) UpsertBatch(ctx context.Context, articles []*entity.Article) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	const query = `
INSERT INTO news_articles
       (source_id, url, title, description, photo, published_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (url) DO NOTHING`

	var inserted int64
	err := db.WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("PrepareContext: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, a := range articles {
			res, err := stmt.ExecContext(ctx,
				a.SourceID, a.URL, a.Title,
				a.Description, a.Photo, a.PublishedAt,
			)
			if err != nil {
				return fmt.Errorf("ExecContext %s: %w", a.URL, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("RowsAffected: %w", err)
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

// FindIDsByURL はURLから記事IDをまとめて引く（存在しないURLはmapに含まれない）
func (repo *ArticleRepo) FindIDsByURL(ctx context.Context, urls []string) (map[string]int64, error) {
	result := make(map[string]int64, len(urls))
	if len(urls) == 0 {
		return result, nil
	}

	const query = `SELECT id, url FROM news_articles WHERE url = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("FindIDsByURL: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id  int64
			url string
		)
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("FindIDsByURL: Scan: %w", err)
		}
		result[url] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindIDsByURL: rows.Err: %w", err)
	}
	return result, nil
}

func (repo *ArticleRepo) UpsertLabelsBatch(ctx context.Context, links []entity.ArticleLabel) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	const query = `
INSERT INTO news_article_labels (article_id, label)
SELECT * FROM unnest($1::bigint[], $2::text[])
ON CONFLICT (article_id, label) DO NOTHING`

	ids := lo.Map(links, func(l entity.ArticleLabel, _ int) int64 { return l.ArticleID })
	labels := lo.Map(links, func(l entity.ArticleLabel, _ int) string { return l.Label })

	res, err := repo.db.ExecContext(ctx, query, pq.Array(ids), pq.Array(labels))
	if err != nil {
		return 0, fmt.Errorf("UpsertLabelsBatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpsertLabelsBatch: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM news_articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
