package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/shared"
)

const idempotencyModule = "sales"

// ErrReplayed is returned when an Idempotency-Key was already used.
var ErrReplayed = fmt.Errorf("request already processed: %w", httpx.ErrConflict)

// RecordSaleRequest is the inbound payload of POST /api/sales.
type RecordSaleRequest struct {
	SaleNumber    string              `json:"sale_number" validate:"required,max=20"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod PaymentMethod       `json:"payment_method" validate:"required,oneof=cash card credit"`
	Items         []RecordSaleItemReq `json:"items" validate:"required,min=1,dive"`
}

// RecordSaleItemReq is one line of RecordSaleRequest.
type RecordSaleItemReq struct {
	ProductID   int64           `json:"product_id" validate:"gt=0"`
	ProductName string          `json:"product_name" validate:"required,max=255"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Validate checks tags and monetary amounts.
func (r RecordSaleRequest) Validate() error {
	if err := httpx.Validate(r); err != nil {
		return err
	}
	amounts := map[string]decimal.Decimal{
		"subtotal":     r.Subtotal,
		"tax_amount":   r.TaxAmount,
		"total_amount": r.TotalAmount,
	}
	for i, item := range r.Items {
		amounts[fmt.Sprintf("items[%d].unit_price", i)] = item.UnitPrice
		amounts[fmt.Sprintf("items[%d].subtotal", i)] = item.Subtotal
	}
	for field, amount := range amounts {
		if amount.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", httpx.ErrValidation, field)
		}
		if !amount.Equal(amount.Round(2)) {
			return fmt.Errorf("%w: %s must have at most 2 decimal places", httpx.ErrValidation, field)
		}
	}
	return nil
}

func (r RecordSaleRequest) sale() Sale {
	items := make([]SaleItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, SaleItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return Sale{
		SaleNumber:    r.SaleNumber,
		Subtotal:      r.Subtotal,
		TaxAmount:     r.TaxAmount,
		TotalAmount:   r.TotalAmount,
		PaymentMethod: r.PaymentMethod,
		Status:        StatusCompleted,
		Items:         items,
	}
}

// Service records externally submitted sales and serves history.
type Service struct {
	store  Store
	idem   *shared.IdempotencyStore
	logger *slog.Logger
}

// NewService constructs a sales service. idem may be nil to disable replay protection.
func NewService(store Store, idem *shared.IdempotencyStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, idem: idem, logger: logger}
}

// Record validates req and stores it. A non-empty idempotencyKey is
// remembered; a replay fails with ErrReplayed. The key is released when
// storing fails so the client can retry.
func (s *Service) Record(ctx context.Context, req RecordSaleRequest, idempotencyKey string) (Sale, error) {
	if err := req.Validate(); err != nil {
		return Sale{}, err
	}
	if idempotencyKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return Sale{}, fmt.Errorf("%w: key %s", ErrReplayed, idempotencyKey)
			}
			return Sale{}, fmt.Errorf("check idempotency: %w", err)
		}
	}
	stored, err := s.store.Record(ctx, req.sale())
	if err != nil {
		if idempotencyKey != "" && s.idem != nil {
			if delErr := s.idem.Delete(ctx, idempotencyKey, idempotencyModule); delErr != nil {
				s.logger.Warn("release idempotency key failed", "key", idempotencyKey, "error", delErr)
			}
		}
		return Sale{}, fmt.Errorf("record sale: %w", err)
	}
	return stored, nil
}

// Recent lists the newest sales.
func (s *Service) Recent(ctx context.Context, limit int) ([]Sale, error) {
	out, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	if out == nil {
		out = []Sale{}
	}
	return out, nil
}

// Get returns one sale by number.
func (s *Service) Get(ctx context.Context, saleNumber string) (Sale, error) {
	return s.store.GetByNumber(ctx, saleNumber)
}
