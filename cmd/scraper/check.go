package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"news-scraper/internal/infra/scraper"
	workerPkg "news-scraper/internal/infra/worker"
	"news-scraper/internal/observability/logging"
	"news-scraper/internal/usecase/feedcheck"
)

func checkCommand(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	input := fs.String("input", "", "file with one feed URL per line")
	output := fs.String("output", "", "file receiving the working URLs")
	concurrency := fs.Int("concurrency", feedcheck.DefaultConcurrency, "URLs checked in parallel")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "check: --input and --output are required")
		return 2
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(os.Getenv("LOG_LEVEL")), true)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in, err := os.Open(*input)
	if err != nil {
		logger.Error("failed to open input", slog.Any("error", err))
		return 1
	}
	urls, err := feedcheck.ReadURLs(in)
	_ = in.Close()
	if err != nil {
		logger.Error("failed to read input", slog.Any("error", err))
		return 1
	}

	cfg, _ := workerPkg.LoadConfigFromEnv(logger, workerPkg.NewWorkerMetrics())
	svc := feedcheck.NewService(scraper.NewRSSFetcher(cfg.Fetch), *concurrency)
	results, summary := svc.Check(ctx, urls)

	out, err := os.Create(*output)
	if err != nil {
		logger.Error("failed to create output", slog.Any("error", err))
		return 1
	}
	if err := feedcheck.WriteWorking(out, results); err != nil {
		_ = out.Close()
		logger.Error("failed to write output", slog.Any("error", err))
		return 1
	}
	if err := out.Close(); err != nil {
		logger.Error("failed to close output", slog.Any("error", err))
		return 1
	}

	feedcheck.Report(os.Stdout, results, summary)
	return 0
}
