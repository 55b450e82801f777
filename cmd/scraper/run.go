package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"news-scraper/internal/infra/scraper"
	workerPkg "news-scraper/internal/infra/worker"
	"news-scraper/internal/observability/logging"
	"news-scraper/internal/observability/tracing"
	"news-scraper/internal/resilience/circuitbreaker"
	flagUC "news-scraper/internal/usecase/flag"
	"news-scraper/internal/usecase/ingest"
	"news-scraper/internal/usecase/schedule"
	"news-scraper/internal/usecase/stats"
)

func runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	once := fs.Bool("once", false, "reload feeds, run one scheduling pass and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	cfg, _ := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.Duration("tick_period", cfg.TickPeriod),
		slog.Duration("wake_interval", cfg.WakeInterval),
		slog.Duration("feed_timeout", cfg.FeedTimeout),
		slog.Float64("fetch_rate_per_second", cfg.Fetch.RatePerSecond),
		slog.String("stats_cron_schedule", cfg.StatsCronSchedule),
		slog.Int("health_port", cfg.HealthPort))

	database, dialect, err := openDatabase(ctx, logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer closeDatabase(logger, database)

	repos := newRepositories(dialect, circuitbreaker.NewDBCircuitBreaker(database))
	flags := flagUC.NewService(repos.flags)
	fetcher := scraper.NewRSSFetcher(cfg.Fetch)
	ingestSvc := ingest.NewService(fetcher, repos.articles, repos.labels, flags)
	sched := schedule.New(repos.feeds, ingestSvc, flags, cfg.Scheduler(), schedule.WithObserver(workerMetrics))

	if *once {
		if err := sched.RunOnce(ctx); err != nil {
			logger.Error("scheduling pass failed", slog.Any("error", err))
			return 1
		}
		return 0
	}

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	workerMetrics.OnResync(func() { healthServer.SetReady(true) })
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	statsSvc := stats.NewService(repos.articles, repos.feeds, flags)
	statsCron, err := statsSvc.Schedule(ctx, cfg.StatsCronSchedule, cfg.Location())
	if err != nil {
		logger.Error("failed to schedule stats job", slog.Any("error", err))
		return 1
	}
	statsCron.Start()
	defer func() { <-statsCron.Stop().Done() }()

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler stopped", slog.Any("error", err))
		return 1
	}
	return 0
}
