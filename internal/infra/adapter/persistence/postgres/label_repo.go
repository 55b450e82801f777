package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"news-scraper/internal/infra/db"
	"news-scraper/internal/repository"
)

type LabelRepo struct{ db db.Conn }

func NewLabelRepo(conn db.Conn) repository.LabelRepository {
	return &LabelRepo{db: conn}
}

func (repo *LabelRepo) UpsertBatch(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	const query = `
INSERT INTO labels (name)
SELECT unnest($1::text[])
ON CONFLICT (name) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, pq.Array(names))
	if err != nil {
		return 0, fmt.Errorf("UpsertBatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpsertBatch: RowsAffected: %w", err)
	}
	return n, nil
}
