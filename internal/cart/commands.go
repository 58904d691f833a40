package cart

import (
	"github.com/quickpos/quickpos/internal/catalog"
	"github.com/quickpos/quickpos/internal/sales"
)

// Command is a cart transition. The set is closed: only types in this
// package implement it.
type Command interface {
	command()
}

// AddItem adds one unit of Product, creating a line when needed.
type AddItem struct{ Product catalog.Product }

// RemoveItem deletes the line for ProductID.
type RemoveItem struct{ ProductID int64 }

// UpdateQuantity sets the quantity of a line; zero or less removes it.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

// ClearCart removes every line.
type ClearCart struct{}

// OpenCheckout shows the checkout.
type OpenCheckout struct{}

// CloseCheckout hides the checkout without side effects.
type CloseCheckout struct{}

// CompleteSale finalizes the order with PaymentMethod.
type CompleteSale struct{ PaymentMethod sales.PaymentMethod }

// CloseReceipt hides the receipt.
type CloseReceipt struct{}

// NewOrder discards the current order and starts an empty one.
type NewOrder struct{}

func (AddItem) command()        {}
func (RemoveItem) command()     {}
func (UpdateQuantity) command() {}
func (ClearCart) command()      {}
func (OpenCheckout) command()   {}
func (CloseCheckout) command()  {}
func (CompleteSale) command()   {}
func (CloseReceipt) command()   {}
func (NewOrder) command()       {}

// Name returns a stable label for cmd, used in logs and metrics.
func Name(cmd Command) string {
	switch cmd.(type) {
	case AddItem:
		return "add_item"
	case RemoveItem:
		return "remove_item"
	case UpdateQuantity:
		return "update_quantity"
	case ClearCart:
		return "clear_cart"
	case OpenCheckout:
		return "open_checkout"
	case CloseCheckout:
		return "close_checkout"
	case CompleteSale:
		return "complete_sale"
	case CloseReceipt:
		return "close_receipt"
	case NewOrder:
		return "new_order"
	}
	return "unknown"
}
