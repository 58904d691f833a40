package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/quickpos/quickpos/internal/app"
	jobmetrics "github.com/quickpos/quickpos/internal/jobs"
	"github.com/quickpos/quickpos/internal/receipt"
	"github.com/quickpos/quickpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	loc, err := receipt.LoadLocation(cfg.ReceiptTimezone)
	if err != nil {
		logger.Warn("receipt timezone, using UTC", slog.String("timezone", cfg.ReceiptTimezone), slog.Any("error", err))
	}
	formatter := receipt.NewFormatter(cfg.CurrencyCode, cfg.StoreName, loc, cfg.Rate())
	printJob := jobs.NewReceiptPrintJob(formatter, cfg.ReceiptSpoolDir, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReceiptPrint, Handler: printJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting", slog.String("redis", cfg.RedisAddr), slog.String("spool_dir", cfg.ReceiptSpoolDir))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
