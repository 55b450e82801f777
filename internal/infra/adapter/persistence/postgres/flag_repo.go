package postgres

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

// Get creates the flag as false when it is missing. The insert is a no-op
// for existing rows so polling never rewrites them.
func (repo *FlagRepo) Get(ctx context.Context, name string) (bool, error) {
	const insert = `INSERT INTO flags (name, value) VALUES ($1, FALSE) ON CONFLICT (name) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, insert, name); err != nil {
		return false, fmt.Errorf("Get %s: %w", name, err)
	}

	const query = `SELECT value FROM flags WHERE name = $1`
	var value bool
	if err := repo.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return false, fmt.Errorf("Get %s: Scan: %w", name, err)
	}
	return value, nil
}

func (repo *FlagRepo) Set(ctx context.Context, name string, value bool) error {
	const query = `
INSERT INTO flags (name, value)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	if _, err := repo.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("Set %s: %w", name, err)
	}
	return nil
}
