package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quickpos/quickpos/internal/app"
	"github.com/quickpos/quickpos/internal/cart"
	"github.com/quickpos/quickpos/internal/catalog"
	"github.com/quickpos/quickpos/internal/checkout"
	"github.com/quickpos/quickpos/internal/observability"
	"github.com/quickpos/quickpos/internal/orderref"
	"github.com/quickpos/quickpos/internal/platform/cache"
	"github.com/quickpos/quickpos/internal/platform/db"
	"github.com/quickpos/quickpos/internal/pricing"
	"github.com/quickpos/quickpos/internal/receipt"
	"github.com/quickpos/quickpos/internal/register"
	registerhttp "github.com/quickpos/quickpos/internal/register/http"
	"github.com/quickpos/quickpos/internal/sales"
	"github.com/quickpos/quickpos/internal/shared"
	"github.com/quickpos/quickpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	metrics := observability.NewMetrics()

	calc, err := pricing.NewCalculator(cfg.Rate())
	if err != nil {
		logger.Error("tax rate", slog.Any("error", err))
		os.Exit(1)
	}
	loc, err := receipt.LoadLocation(cfg.ReceiptTimezone)
	if err != nil {
		logger.Warn("receipt timezone, using UTC", slog.String("timezone", cfg.ReceiptTimezone), slog.Any("error", err))
	}
	formatter := receipt.NewFormatter(cfg.CurrencyCode, cfg.StoreName, loc, calc.Rate())

	var (
		provider catalog.Provider = catalog.NewSeededProvider()
		store    sales.Store      = sales.NewMemoryStore()
		pool     *pgxpool.Pool
	)
	if cfg.UsePostgres() {
		pool, err = db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		provider = catalog.NewPostgresProvider(pool)
		store = sales.NewPostgresStore(pool)
	}

	var redisClient *redis.Client
	if cfg.CatalogCacheTTL > 0 || cfg.ReceiptJobs {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache and idempotency", slog.Any("error", err))
			redisClient = nil
		}
	}
	var idem *shared.IdempotencyStore
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		idem = shared.NewIdempotencyStore(redisClient, shared.DefaultIdempotencyTTL)
		if cfg.CatalogCacheTTL > 0 {
			provider = catalog.NewCachedProvider(provider, catalog.NewCache(redisClient, cfg.CatalogCacheTTL))
		}
	}

	var (
		receipts   checkout.ReceiptQueue
		jobHandler *jobs.Handler
	)
	if cfg.ReceiptJobs && redisClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient, err := jobs.NewClient(redisOpts, metrics.Jobs())
		if err != nil {
			logger.Error("init job client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		receipts = jobClient
		inspector := asynq.NewInspector(redisOpts)
		defer inspector.Close()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	catalogService := catalog.NewService(provider, logger)
	salesService := sales.NewService(store, idem, logger)

	refs := orderref.New(orderref.Strategy(cfg.OrderRefStrategy))
	manager := register.NewManager(func() *cart.Order {
		return cart.New(calc, refs)
	})
	flow := checkout.NewFlow(checkout.Config{
		ProcessingDelay:      cfg.CheckoutProcessingDelay,
		RecordAttempts:       cfg.CheckoutRecordAttempts,
		RetryInitialInterval: 200 * time.Millisecond,
	}, store, receipts, metrics, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		SalesHandler:    sales.NewHandler(logger, salesService),
		RegisterHandler: registerhttp.NewHandler(manager, catalogService, flow, formatter, logger),
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server starting",
			slog.String("addr", cfg.AppAddr),
			slog.String("backend", cfg.StoreBackend),
			slog.String("order_refs", cfg.OrderRefStrategy))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
	logger.Info("shutdown complete")
}
