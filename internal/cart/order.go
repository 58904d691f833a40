// Package cart holds the state machine for one open order.
package cart

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/catalog"
	"github.com/quickpos/quickpos/internal/orderref"
	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/pricing"
	"github.com/quickpos/quickpos/internal/sales"
)

var (
	ErrProductInactive      = fmt.Errorf("product is not available: %w", httpx.ErrUnprocessable)
	ErrInvalidPaymentMethod = sales.ErrInvalidPaymentMethod
	ErrUnknownCommand       = errors.New("cart: unknown command")
	ErrStaleSale            = fmt.Errorf("sale does not belong to the current order: %w", httpx.ErrConflict)
)

// State is the derived phase of an order.
type State string

const (
	StateBuilding     State = "building"
	StateCheckoutOpen State = "checkout_open"
	StateFinalizing   State = "finalizing"
	StateReceiptOpen  State = "receipt_open"
)

// Line is one product in the order, with name and price captured when it was added.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// Order is a single open order. It is not safe for concurrent use.
type Order struct {
	lines        []Line
	reference    string
	checkoutOpen bool
	receiptOpen  bool
	lastSale     *sales.Sale

	calc pricing.Calculator
	refs orderref.Generator
	now  func() time.Time
}

// Option configures an Order.
type Option func(*Order)

// WithClock overrides the clock used to timestamp sales.
func WithClock(now func() time.Time) Option {
	return func(o *Order) { o.now = now }
}

// New returns an empty order with a fresh reference from refs.
func New(calc pricing.Calculator, refs orderref.Generator, opts ...Option) *Order {
	o := &Order{calc: calc, refs: refs, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	o.reference = refs.Next()
	return o
}

// Reference returns the current order number.
func (o *Order) Reference() string { return o.reference }

// Apply runs one command against the order.
func (o *Order) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case AddItem:
		return o.addItem(c.Product)
	case RemoveItem:
		o.removeItem(c.ProductID)
	case UpdateQuantity:
		o.updateQuantity(c.ProductID, c.Quantity)
	case ClearCart:
		o.lines = nil
	case OpenCheckout:
		o.checkoutOpen = true
	case CloseCheckout:
		o.checkoutOpen = false
	case CompleteSale:
		sale, err := o.Finalize(c.PaymentMethod)
		if err != nil {
			return err
		}
		return o.Commit(sale)
	case CloseReceipt:
		o.receiptOpen = false
	case NewOrder:
		o.lines = nil
		o.reference = o.refs.Next()
		o.checkoutOpen = false
		o.receiptOpen = false
		o.lastSale = nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}

func (o *Order) addItem(p catalog.Product) error {
	if !p.IsActive {
		return fmt.Errorf("%w: %s", ErrProductInactive, p.Name)
	}
	if i := o.indexOf(p.ID); i >= 0 {
		o.lines[i].Quantity++
		return nil
	}
	line := Line{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}
	if p.ImageURL != nil {
		img := *p.ImageURL
		line.ImageURL = &img
	}
	o.lines = append(o.lines, line)
	return nil
}

func (o *Order) removeItem(productID int64) {
	if i := o.indexOf(productID); i >= 0 {
		o.lines = slices.Delete(o.lines, i, i+1)
	}
}

func (o *Order) updateQuantity(productID int64, qty int) {
	if qty <= 0 {
		o.removeItem(productID)
		return
	}
	if i := o.indexOf(productID); i >= 0 {
		o.lines[i].Quantity = qty
	}
}

func (o *Order) indexOf(productID int64) int {
	return slices.IndexFunc(o.lines, func(l Line) bool { return l.ProductID == productID })
}

func (o *Order) pricingLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(o.lines))
	for _, l := range o.lines {
		out = append(out, pricing.Line{UnitPrice: l.Price, Quantity: l.Quantity})
	}
	return out
}

// Finalize builds the sale that completing the order with method would
// produce. The order is not modified.
func (o *Order) Finalize(method sales.PaymentMethod) (sales.Sale, error) {
	if !method.Valid() {
		return sales.Sale{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	totals := o.calc.Calculate(o.pricingLines())
	items := make([]sales.SaleItem, 0, len(o.lines))
	for _, l := range o.lines {
		items = append(items, sales.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Price,
			Subtotal:    pricing.LineSubtotal(l.Price, l.Quantity),
		})
	}
	return sales.Sale{
		SaleNumber:    o.reference,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		TotalAmount:   totals.TotalAmount,
		PaymentMethod: method,
		Status:        sales.StatusCompleted,
		Items:         items,
		CreatedAt:     o.now(),
	}, nil
}

// Commit records sale as the last completed sale, closes the checkout and
// opens the receipt. sale must carry the current reference.
func (o *Order) Commit(sale sales.Sale) error {
	if sale.SaleNumber != o.reference {
		return fmt.Errorf("%w: %s != %s", ErrStaleSale, sale.SaleNumber, o.reference)
	}
	committed := sale.Clone()
	o.lastSale = &committed
	o.checkoutOpen = false
	o.receiptOpen = true
	return nil
}

// View is a read-only snapshot of an order.
type View struct {
	OrderNumber  string          `json:"order_number"`
	State        State           `json:"state"`
	Lines        []Line          `json:"lines"`
	CheckoutOpen bool            `json:"checkout_open"`
	ReceiptOpen  bool            `json:"receipt_open"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
	LastSale     *sales.Sale     `json:"last_sale,omitempty"`
}

// View derives totals and returns copies of the order's state.
func (o *Order) View() View {
	totals := o.calc.Calculate(o.pricingLines())
	lines := make([]Line, len(o.lines))
	count := 0
	for i, l := range o.lines {
		if l.ImageURL != nil {
			img := *l.ImageURL
			l.ImageURL = &img
		}
		lines[i] = l
		count += l.Quantity
	}
	v := View{
		OrderNumber:  o.reference,
		State:        o.state(),
		Lines:        lines,
		CheckoutOpen: o.checkoutOpen,
		ReceiptOpen:  o.receiptOpen,
		Subtotal:     totals.Subtotal,
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.TotalAmount,
		ItemCount:    count,
	}
	if o.lastSale != nil {
		last := o.lastSale.Clone()
		v.LastSale = &last
	}
	return v
}

func (o *Order) state() State {
	switch {
	case o.checkoutOpen:
		return StateCheckoutOpen
	case o.receiptOpen:
		return StateReceiptOpen
	}
	return StateBuilding
}
