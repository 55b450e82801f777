package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/lo"

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

	var inserted int64
	err := db.WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		for _, chunk := range lo.Chunk(names, maxPlaceholders) {
			query := fmt.Sprintf(
				`INSERT INTO labels (name) VALUES %s ON CONFLICT (name) DO NOTHING`,
				valuesList(len(chunk), 1),
			)
			args := lo.ToAnySlice(chunk)
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
