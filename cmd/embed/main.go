// Command embed fills missing word and example embeddings through the
// Gemini embedding API. It is safe to re-run: only rows without a vector
// are touched.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/example"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/provider/gemini"
	"github.com/heartmarshall/jpkr-backend/internal/app"
	"github.com/heartmarshall/jpkr-backend/internal/config"
	"github.com/heartmarshall/jpkr-backend/internal/service/embedding"
)

func main() {
	target := flag.String("target", string(embedding.TargetAll), "words, examples or all")
	batchSize := flag.Int("batch", 0, "texts per embedding call (default from config)")
	concurrency := flag.Int("concurrency", 0, "parallel embedding calls (default from config)")
	timeout := flag.Duration("timeout", 2*time.Hour, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	input := embedding.BackfillInput{
		Target:      embedding.Target(*target),
		BatchSize:   cfg.Embedding.BatchSize,
		Concurrency: cfg.Embedding.Concurrency,
	}
	if *batchSize > 0 {
		input.BatchSize = *batchSize
	}
	if *concurrency > 0 {
		input.Concurrency = *concurrency
	}

	if err := run(ctx, cfg, input, logger); err != nil {
		logger.Error("embedding backfill failed", slog.String("error", err.Error()))
		cancel()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, input embedding.BackfillInput, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	embedder, err := gemini.NewEmbedder(ctx, cfg.Embedding, "", logger)
	if err != nil {
		return err
	}

	svc := embedding.NewService(logger, word.New(pool), example.New(pool), embedder, postgres.NewTxManager(pool))

	result, err := svc.Backfill(ctx, input)
	logger.Info("embedding backfill summary",
		slog.Int("words", result.Words),
		slog.Int("examples", result.Examples),
		slog.Int("skipped", result.Skipped),
	)
	return err
}
