package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"news-scraper/internal/infra/db"
	"news-scraper/internal/observability/logging"
	"news-scraper/internal/pkg/config"
)

func migrateCommand(args []string) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	down := fs.Bool("down", false, "drop all tables instead of creating them")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	dialect, err := db.ParseDialect(config.LoadEnvString("DATABASE_DRIVER", "postgres"))
	if err != nil {
		logger.Error("invalid database driver", slog.Any("error", err))
		return 1
	}
	database, err := db.Open(context.Background(), dialect, os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer closeDatabase(logger, database)

	if *down {
		err = db.MigrateDown(database)
	} else {
		err = db.MigrateUp(database, dialect)
	}
	if err != nil {
		logger.Error("migration failed", slog.Bool("down", *down), slog.Any("error", err))
		return 1
	}
	logger.Info("migration completed", slog.String("dialect", string(dialect)), slog.Bool("down", *down))
	return 0
}
