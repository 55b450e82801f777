package sqlite

import (
	"context"
	"fmt"

	"news-scraper/internal/infra/db"
	"news-scraper/internal/repository"
)

type FlagRepo struct{ db db.Conn }

func NewFlagRepo(conn db.Conn) repository.FlagRepository {
	return &FlagRepo{db: conn}
}

func (repo *FlagRepo) Get(ctx context.Context, name string) (bool, error) {
	const insert = `INSERT INTO flags (name, value) VALUES (?, 0) ON CONFLICT (name) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, insert, name); err != nil {
		return false, fmt.Errorf("Get %s: %w", name, err)
	}

	var value bool
	if err := repo.db.QueryRowContext(ctx, `SELECT value FROM flags WHERE name = ?`, name).Scan(&value); err != nil {
		return false, fmt.Errorf("Get %s: Scan: %w", name, err)
	}
	return value, nil
}

func (repo *FlagRepo) Set(ctx context.Context, name string, value bool) error {
	const query = `
INSERT INTO flags (name, value)
VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value`
	if _, err := repo.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("Set %s: %w", name, err)
	}
	return nil
}
