package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	workerPkg "news-scraper/internal/infra/worker"
	"news-scraper/internal/observability/logging"
	flagUC "news-scraper/internal/usecase/flag"
	"news-scraper/internal/usecase/seed"
)

func seedCommand(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	input := fs.String("input", "", "YAML manifest or plain list of feed URLs")
	interval := fs.Int("interval", 0, "refresh interval in minutes for feeds without one (default SCHEDULER_DEFAULT_INTERVAL_MINUTES)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "seed: --input is required")
		return 2
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(os.Getenv("LOG_LEVEL")), true)
	slog.SetDefault(logger)
	ctx := context.Background()

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("failed to read manifest", slog.Any("error", err))
		return 1
	}
	manifest, err := seed.Load(data)
	if err != nil {
		logger.Error("invalid manifest", slog.Any("error", err))
		return 1
	}

	cfg, _ := workerPkg.LoadConfigFromEnv(logger, workerPkg.NewWorkerMetrics())
	defaultInterval := cfg.DefaultIntervalMinutes
	if *interval > 0 {
		defaultInterval = *interval
	}

	database, dialect, err := openDatabase(ctx, logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer closeDatabase(logger, database)

	repos := newRepositories(dialect, database)
	svc := seed.NewService(repos.feeds, flagUC.NewService(repos.flags), defaultInterval)
	res, err := svc.Apply(ctx, manifest)
	if err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		return 1
	}

	logger.Info("seed completed",
		slog.Int("sources", res.Sources),
		slog.Int("feeds_created", res.FeedsCreated),
		slog.Int("feeds_existing", res.FeedsExisted))
	return 0
}
