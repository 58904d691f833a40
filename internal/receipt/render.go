package receipt

import (
	"fmt"
	"strings"

	"github.com/quickpos/quickpos/internal/sales"
)

const width = 40

// Render produces the plain-text receipt for sale.
func (f *Formatter) Render(sale sales.Sale) string {
	var b strings.Builder
	rule := strings.Repeat("-", width)

	b.WriteString(center(f.storeName))
	b.WriteString(center(f.Long(sale.CreatedAt)))
	b.WriteString(center("Payment: " + sale.PaymentMethod.Label()))
	b.WriteString(rule + "\n")

	for _, item := range sale.Items {
		b.WriteString(row(fmt.Sprintf("%s x%d", item.ProductName, item.Quantity), f.Currency(item.Subtotal)))
	}

	b.WriteString(rule + "\n")
	b.WriteString(row("Subtotal", f.Currency(sale.Subtotal)))
	b.WriteString(row(f.vatLabel, f.Currency(sale.TaxAmount)))
	b.WriteString(rule + "\n")
	b.WriteString(row("Total", f.Currency(sale.TotalAmount)))
	b.WriteString("\n")
	b.WriteString(center("Thank you for your visit!"))
	b.WriteString(center(sale.SaleNumber))
	return b.String()
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}

func row(label, amount string) string {
	gap := width - len(label) - len(amount)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + amount + "\n"
}
