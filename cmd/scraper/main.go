// Command scraper polls RSS/Atom feeds on a per-feed schedule and stores
// new articles.
//
// Usage:
//
//	scraper run [--once]
//	scraper check --input FILE --output FILE [--concurrency N]
//	scraper seed --input FILE [--interval MINUTES]
//	scraper migrate [--down]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	pgRepo "news-scraper/internal/infra/adapter/persistence/postgres"
	sqliteRepo "news-scraper/internal/infra/adapter/persistence/sqlite"
	"news-scraper/internal/infra/db"
	"news-scraper/internal/pkg/config"
	"news-scraper/internal/repository"
)

const usage = `usage: scraper <command> [flags]

commands:
  run      poll feeds continuously (--once for a single pass)
  check    validate a list of feed URLs
  seed     register sources and feeds from a manifest
  migrate  create (or with --down, drop) the database schema
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var code int
	args := os.Args[2:]
	switch os.Args[1] {
	case "run":
		code = runCommand(args)
	case "check":
		code = checkCommand(args)
	case "seed":
		code = seedCommand(args)
	case "migrate":
		code = migrateCommand(args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		code = 2
	}
	os.Exit(code)
}

type repositories struct {
	feeds    repository.FeedRepository
	flags    repository.FlagRepository
	articles repository.ArticleRepository
	labels   repository.LabelRepository
}

func newRepositories(dialect db.Dialect, conn db.Conn) repositories {
	if dialect == db.DialectSQLite {
		return repositories{
			feeds:    sqliteRepo.NewFeedRepo(conn),
			flags:    sqliteRepo.NewFlagRepo(conn),
			articles: sqliteRepo.NewArticleRepo(conn),
			labels:   sqliteRepo.NewLabelRepo(conn),
		}
	}
	return repositories{
		feeds:    pgRepo.NewFeedRepo(conn),
		flags:    pgRepo.NewFlagRepo(conn),
		articles: pgRepo.NewArticleRepo(conn),
		labels:   pgRepo.NewLabelRepo(conn),
	}
}

// openDatabase connects using DATABASE_DRIVER and DATABASE_URL. SQLite
// databases are migrated in place; for PostgreSQL the schema is expected
// from a separate migrate job and is waited for.
func openDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, db.Dialect, error) {
	dialect, err := db.ParseDialect(config.LoadEnvString("DATABASE_DRIVER", "postgres"))
	if err != nil {
		return nil, "", err
	}

	database, err := db.Open(ctx, dialect, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, "", err
	}

	if dialect == db.DialectSQLite {
		err = db.MigrateUp(database, dialect)
	} else {
		err = db.WaitForSchema(ctx, database, 10, 3*time.Second)
	}
	if err != nil {
		_ = database.Close()
		return nil, "", err
	}

	logger.Info("database ready", slog.String("dialect", string(dialect)))
	return database, dialect, nil
}

func closeDatabase(logger *slog.Logger, database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}
