// Package sales records completed sales and lists recent ones.
package sales

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/platform/httpx"
)

var (
	ErrNotFound             = fmt.Errorf("sale %w", httpx.ErrNotFound)
	ErrDuplicate            = fmt.Errorf("sale number already recorded: %w", httpx.ErrDuplicate)
	ErrInvalidPaymentMethod = fmt.Errorf("invalid payment method: %w", httpx.ErrValidation)
)

// DefaultListLimit and MaxListLimit bound ListRecent.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentCredit PaymentMethod = "credit"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// Label is the receipt caption for m.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentCredit:
		return "Credit"
	}
	return string(m)
}

// ParsePaymentMethod validates a raw payment method.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(raw)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
	}
	return m, nil
}

// Status is the lifecycle state of a recorded sale.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
	StatusVoid      Status = "void"
)

// Sale is an immutable record of a completed order.
type Sale struct {
	ID            int64           `json:"id,omitempty"`
	SaleNumber    string          `json:"sale_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        Status          `json:"status"`
	Items         []SaleItem      `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleItem is one line of a sale, captured when the sale was built.
type SaleItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ItemCount returns the total number of units sold.
func (s Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// Clone returns a copy that shares no slices with s.
func (s Sale) Clone() Sale {
	s.Items = slices.Clone(s.Items)
	return s
}

// Rounded returns a copy with every amount rounded to cents, the precision
// both stores keep.
func (s Sale) Rounded() Sale {
	out := s.Clone()
	out.Subtotal = out.Subtotal.Round(2)
	out.TaxAmount = out.TaxAmount.Round(2)
	out.TotalAmount = out.TotalAmount.Round(2)
	for i := range out.Items {
		out.Items[i].UnitPrice = out.Items[i].UnitPrice.Round(2)
		out.Items[i].Subtotal = out.Items[i].Subtotal.Round(2)
	}
	return out
}

// SameContent reports whether s and other describe the same sale: number,
// payment method, rounded totals and items. Storage ID, status and
// timestamps are ignored.
func (s Sale) SameContent(other Sale) bool {
	a, b := s.Rounded(), other.Rounded()
	if a.SaleNumber != b.SaleNumber || a.PaymentMethod != b.PaymentMethod ||
		!a.Subtotal.Equal(b.Subtotal) || !a.TaxAmount.Equal(b.TaxAmount) ||
		!a.TotalAmount.Equal(b.TotalAmount) || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if x.ProductID != y.ProductID || x.ProductName != y.ProductName || x.Quantity != y.Quantity ||
			!x.UnitPrice.Equal(y.UnitPrice) || !x.Subtotal.Equal(y.Subtotal) {
			return false
		}
	}
	return true
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
