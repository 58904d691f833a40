// Package checkout completes payments: it records the sale first and only
// then moves the register's cart to the receipt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/quickpos/quickpos/internal/cart"
	"github.com/quickpos/quickpos/internal/observability"
	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/register"
	"github.com/quickpos/quickpos/internal/sales"
)

var (
	ErrCheckoutClosed = fmt.Errorf("checkout is not open: %w", httpx.ErrUnprocessable)
	ErrEmptyCart      = fmt.Errorf("cart is empty: %w", httpx.ErrUnprocessable)
	ErrRecordFailed   = fmt.Errorf("sale could not be saved, the cart is unchanged, please try again: %w", httpx.ErrUnavailable)
	ErrSaleConflict   = fmt.Errorf("sale number already used by a different sale, start a new order: %w", httpx.ErrConflict)
)

// Recorder persists completed sales. sales.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, sale sales.Sale) (sales.Sale, error)
	GetByNumber(ctx context.Context, saleNumber string) (sales.Sale, error)
}

// ReceiptQueue hands completed sales to the receipt printer.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, terminal string, sale sales.Sale) error
}

// Config tunes the flow.
type Config struct {
	ProcessingDelay      time.Duration
	RecordAttempts       int
	RetryInitialInterval time.Duration
}

// DefaultConfig records with three attempts and no artificial delay.
func DefaultConfig() Config {
	return Config{RecordAttempts: 3, RetryInitialInterval: 100 * time.Millisecond}
}

// Flow drives a register through payment.
type Flow struct {
	cfg      Config
	recorder Recorder
	receipts ReceiptQueue
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewFlow constructs the checkout flow. receipts and metrics may be nil.
func NewFlow(cfg Config, recorder Recorder, receipts ReceiptQueue, metrics *observability.Metrics, logger *slog.Logger) *Flow {
	if cfg.RecordAttempts <= 0 {
		cfg.RecordAttempts = 1
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{cfg: cfg, recorder: recorder, receipts: receipts, metrics: metrics, logger: logger}
}

// Ready reports whether v can be paid.
func Ready(v cart.View) error {
	if !v.CheckoutOpen {
		return ErrCheckoutClosed
	}
	if len(v.Lines) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// Complete pays for the register's order with method. On failure the cart,
// its reference and checkout flag are left as they were.
func (f *Flow) Complete(ctx context.Context, reg *register.Register, method sales.PaymentMethod) (sales.Sale, error) {
	logger := f.logger.With(slog.String("terminal", reg.ID()), slog.String("payment_method", string(method)))

	if !method.Valid() {
		f.metrics.CheckoutFailed("invalid_payment_method")
		return sales.Sale{}, fmt.Errorf("complete sale: %w: %q", sales.ErrInvalidPaymentMethod, method)
	}

	pending, err := reg.BeginPayment(method, Ready)
	if err != nil {
		f.metrics.CheckoutFailed(reason(err))
		return sales.Sale{}, fmt.Errorf("complete sale: %w", err)
	}
	logger = logger.With(slog.String("sale_number", pending.SaleNumber))

	if err := f.wait(ctx); err != nil {
		reg.AbortPayment()
		f.metrics.CheckoutFailed("canceled")
		return sales.Sale{}, fmt.Errorf("complete sale: %w", err)
	}

	stored, err := f.record(ctx, pending)
	if errors.Is(err, httpx.ErrDuplicate) {
		stored, err = f.reconcile(ctx, pending, err)
	}
	if errors.Is(err, ErrSaleConflict) {
		reg.AbortPayment()
		f.metrics.CheckoutFailed("sale_conflict")
		logger.Error("record sale", slog.Any("error", err))
		return sales.Sale{}, fmt.Errorf("complete sale %s: %w", pending.SaleNumber, err)
	}
	if err != nil {
		reg.AbortPayment()
		f.metrics.CheckoutFailed("record_failed")
		logger.Error("record sale", slog.Any("error", err))
		return sales.Sale{}, fmt.Errorf("complete sale %s: %w", pending.SaleNumber, ErrRecordFailed)
	}

	if _, err := reg.CommitPayment(stored); err != nil {
		// The sale is stored; the cart moved on without it.
		logger.Error("commit sale to cart", slog.Any("error", err))
		return stored, fmt.Errorf("complete sale: %w", err)
	}

	f.metrics.SaleCompleted(string(stored.PaymentMethod), stored.TotalAmount)
	logger.Info("sale completed", slog.String("total", stored.TotalAmount.StringFixed(2)), slog.Int("items", stored.ItemCount()))

	if f.receipts != nil {
		if err := f.receipts.EnqueueReceipt(ctx, reg.ID(), stored); err != nil {
			logger.Warn("enqueue receipt", slog.Any("error", err))
		}
	}
	return stored, nil
}

func (f *Flow) wait(ctx context.Context) error {
	if f.cfg.ProcessingDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.cfg.ProcessingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Flow) record(ctx context.Context, sale sales.Sale) (sales.Sale, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.RetryInitialInterval

	attempt := 0
	return backoff.Retry(ctx, func() (sales.Sale, error) {
		attempt++
		stored, err := f.recorder.Record(ctx, sale)
		if err == nil {
			return stored, nil
		}
		if errors.Is(err, httpx.ErrDuplicate) || errors.Is(err, httpx.ErrValidation) {
			return sales.Sale{}, backoff.Permanent(err)
		}
		f.logger.Warn("record sale attempt failed",
			slog.String("sale_number", sale.SaleNumber),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		return sales.Sale{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(f.cfg.RecordAttempts)))
}

// reconcile resolves a duplicate sale number. An attempt whose response was
// lost may already have stored pending; the stored copy is then the result.
func (f *Flow) reconcile(ctx context.Context, pending sales.Sale, dupErr error) (sales.Sale, error) {
	existing, err := f.recorder.GetByNumber(ctx, pending.SaleNumber)
	if err != nil {
		return sales.Sale{}, fmt.Errorf("%w; lookup: %w", dupErr, err)
	}
	if !existing.SameContent(pending) {
		return sales.Sale{}, ErrSaleConflict
	}
	f.logger.Info("sale already recorded by an earlier attempt", slog.String("sale_number", pending.SaleNumber))
	return existing, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, register.ErrProcessing):
		return "processing"
	case errors.Is(err, ErrCheckoutClosed):
		return "checkout_closed"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, sales.ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	}
	return "other"
}
