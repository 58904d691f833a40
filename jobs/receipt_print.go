package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/quickpos/quickpos/internal/jobs"
	"github.com/quickpos/quickpos/internal/receipt"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReceiptPrintJob renders receipts and writes them to the spool directory.
// Without a spool directory the rendered receipt is logged instead.
type ReceiptPrintJob struct {
	Formatter *receipt.Formatter
	SpoolDir  string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewReceiptPrintJob wires dependencies for the print handler.
func NewReceiptPrintJob(formatter *receipt.Formatter, spoolDir string, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReceiptPrintJob {
	return &ReceiptPrintJob{Formatter: formatter, SpoolDir: spoolDir, Logger: logger, Metrics: metrics}
}

// Handle processes TaskReceiptPrint tasks.
func (j *ReceiptPrintJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Formatter == nil {
		return errors.New("receipt print: handler not configured")
	}
	var payload ReceiptPrintPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Sale.SaleNumber == "" {
		return fmt.Errorf("receipt print: missing sale number: %w", asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskReceiptPrint)
	logger := j.logger().With(
		slog.String("terminal", payload.Terminal),
		slog.String("sale_number", payload.Sale.SaleNumber),
	)

	text := j.Formatter.Render(payload.Sale)
	if j.SpoolDir == "" {
		logger.Info("receipt rendered", slog.String("receipt", text))
		return tracker.End(nil)
	}

	path, err := j.spool(payload.Sale.SaleNumber, text)
	if err != nil {
		logger.Error("spool receipt", slog.Any("error", err))
		return tracker.End(err)
	}
	logger.Info("receipt spooled", slog.String("path", path))
	return tracker.End(nil)
}

func (j *ReceiptPrintJob) spool(saleNumber, text string) (string, error) {
	if err := os.MkdirAll(j.SpoolDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(j.SpoolDir, filepath.Base(saleNumber)+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (j *ReceiptPrintJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReceiptPrint))
	}
	return slog.Default().With(slog.String("job", TaskReceiptPrint))
}

func (j *ReceiptPrintJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
