// Package pricing computes tax-inclusive order totals.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept for every derived amount.
const Scale = 2

// DefaultTaxRate is the VAT rate of the reference deployment.
const DefaultTaxRate = "0.05"

// ErrInvalidTaxRate is returned for rates outside [0, 1].
var ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 1")

// Line is a priced quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals holds the rounded amounts derived from a set of lines.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Calculator computes totals at a fixed tax rate.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator validates the rate and returns a calculator.
func NewCalculator(rate decimal.Decimal) (Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return Calculator{}, fmt.Errorf("%w: %s", ErrInvalidTaxRate, rate.String())
	}
	return Calculator{rate: rate}, nil
}

// MustCalculator is NewCalculator over a textual rate; it panics on bad input.
func MustCalculator(rate string) Calculator {
	r, err := ParseTaxRate(rate)
	if err != nil {
		panic(err)
	}
	c, err := NewCalculator(r)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseTaxRate parses a decimal rate such as "0.05".
func ParseTaxRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidTaxRate, raw)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidTaxRate, raw)
	}
	return rate, nil
}

// Rate returns the configured tax rate.
func (c Calculator) Rate() decimal.Decimal {
	return c.rate
}

// Calculate returns the totals for lines at the calculator's rate.
func (c Calculator) Calculate(lines []Line) Totals {
	return Calculate(lines, c.rate)
}

// Calculate sums lines and applies rate. Each amount is rounded from its own
// unrounded value, half away from zero, so the rounded total is not
// necessarily the sum of the rounded subtotal and tax.
func Calculate(lines []Line, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(rate)
	return Totals{
		Subtotal:    Round(subtotal),
		TaxAmount:   Round(tax),
		TotalAmount: Round(subtotal.Add(tax)),
	}
}

// LineSubtotal returns price × quantity rounded to Scale places.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return Round(price.Mul(decimal.NewFromInt(int64(quantity))))
}

// Round rounds to Scale places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}
