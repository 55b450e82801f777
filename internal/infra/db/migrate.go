package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

var postgresSchema = []string{
	`
CREATE TABLE IF NOT EXISTS news_sources (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    url  TEXT NOT NULL DEFAULT ''
)`,
	`
CREATE TABLE IF NOT EXISTS rss_feeds (
    id               BIGSERIAL PRIMARY KEY,
    source_id        BIGINT NOT NULL REFERENCES news_sources(id) ON DELETE CASCADE,
    url              TEXT NOT NULL UNIQUE,
    interval_minutes INTEGER NOT NULL DEFAULT 60 CHECK (interval_minutes > 0)
)`,
	`
CREATE TABLE IF NOT EXISTS news_articles (
    id           BIGSERIAL PRIMARY KEY,
    source_id    BIGINT NOT NULL REFERENCES news_sources(id),
    url          TEXT NOT NULL UNIQUE,
    title        TEXT NOT NULL,
    description  TEXT,
    photo        TEXT,
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS labels (
    name TEXT PRIMARY KEY
)`,
	`
CREATE TABLE IF NOT EXISTS news_article_labels (
    article_id BIGINT NOT NULL REFERENCES news_articles(id) ON DELETE CASCADE,
    label      TEXT NOT NULL REFERENCES labels(name),
    PRIMARY KEY (article_id, label)
)`,
	`
CREATE TABLE IF NOT EXISTS flags (
    name  TEXT PRIMARY KEY,
    value BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_source_id ON news_articles(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_published_at ON news_articles(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_news_article_labels_label ON news_article_labels(label)`,
}

var sqliteSchema = []string{
	`
CREATE TABLE IF NOT EXISTS news_sources (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    url  TEXT NOT NULL DEFAULT ''
)`,
	`
CREATE TABLE IF NOT EXISTS rss_feeds (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id        INTEGER NOT NULL REFERENCES news_sources(id) ON DELETE CASCADE,
    url              TEXT NOT NULL UNIQUE,
    interval_minutes INTEGER NOT NULL DEFAULT 60 CHECK (interval_minutes > 0)
)`,
	`
CREATE TABLE IF NOT EXISTS news_articles (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id    INTEGER NOT NULL REFERENCES news_sources(id),
    url          TEXT NOT NULL UNIQUE,
    title        TEXT NOT NULL,
    description  TEXT,
    photo        TEXT,
    published_at DATETIME,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`
CREATE TABLE IF NOT EXISTS labels (
    name TEXT PRIMARY KEY
)`,
	`
CREATE TABLE IF NOT EXISTS news_article_labels (
    article_id INTEGER NOT NULL REFERENCES news_articles(id) ON DELETE CASCADE,
    label      TEXT NOT NULL REFERENCES labels(name),
    PRIMARY KEY (article_id, label)
)`,
	`
CREATE TABLE IF NOT EXISTS flags (
    name  TEXT PRIMARY KEY,
    value BOOLEAN NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_source_id ON news_articles(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_news_articles_published_at ON news_articles(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_news_article_labels_label ON news_article_labels(label)`,
}

// MigrateUp creates every table and index that does not exist yet. It is safe
// to run on every start.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	stmts := postgresSchema
	if dialect == DialectSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS news_article_labels`,
		`DROP TABLE IF EXISTS labels`,
		`DROP TABLE IF EXISTS news_articles`,
		`DROP TABLE IF EXISTS rss_feeds`,
		`DROP TABLE IF EXISTS news_sources`,
		`DROP TABLE IF EXISTS flags`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WaitForSchema polls until the flags table is queryable, for deployments where
// migrations run in a separate job.
func WaitForSchema(ctx context.Context, db *sql.DB, attempts int, delay time.Duration) error {
	const probe = "SELECT 1 FROM flags LIMIT 1"
	var lastErr error
	for i := 0; i < attempts; i++ {
		if _, lastErr = db.ExecContext(ctx, probe); lastErr == nil {
			return nil
		}
		slog.Info("waiting for migrations", slog.Int("attempt", i+1), slog.Duration("retry_in", delay))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("schema not ready after %d attempts: %w", attempts, lastErr)
}
