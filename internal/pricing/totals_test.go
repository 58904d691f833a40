package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(pairs ...string) []Line {
	out := make([]Line, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		qty, _ := decimal.NewFromString(pairs[i+1])
		out = append(out, Line{UnitPrice: decimal.RequireFromString(pairs[i]), Quantity: int(qty.IntPart())})
	}
	return out
}

func assertTotals(t *testing.T, got Totals, subtotal, tax, total string) {
	t.Helper()
	assert.Equal(t, subtotal, got.Subtotal.StringFixed(2), "subtotal")
	assert.Equal(t, tax, got.TaxAmount.StringFixed(2), "tax")
	assert.Equal(t, total, got.TotalAmount.StringFixed(2), "total")
}

func TestCalculate(t *testing.T) {
	rate := decimal.RequireFromString("0.05")

	tests := []struct {
		name     string
		lines    []Line
		subtotal string
		tax      string
		total    string
	}{
		{name: "empty", lines: nil, subtotal: "0.00", tax: "0.00", total: "0.00"},
		{name: "latte and americano", lines: lines("18", "2", "14", "1"), subtotal: "50.00", tax: "2.50", total: "52.50"},
		{name: "sub-cent price", lines: lines("12.333", "1"), subtotal: "12.33", tax: "0.62", total: "12.95"},
		// rounded parts would give 1.12 + 0.06 = 1.18
		{name: "total rounded from precise amounts", lines: lines("1.115", "1"), subtotal: "1.12", tax: "0.06", total: "1.17"},
		{name: "half rounds away from zero", lines: lines("0.125", "1"), subtotal: "0.13", tax: "0.01", total: "0.13"},
		{name: "many small additions", lines: lines("0.1", "3", "0.2", "3"), subtotal: "0.90", tax: "0.05", total: "0.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTotals(t, Calculate(tt.lines, rate), tt.subtotal, tt.tax, tt.total)
		})
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	calc := MustCalculator("0.05")
	in := lines("18", "2", "12.333", "3")

	first := calc.Calculate(in)
	second := calc.Calculate(in)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.Equal(t, "12.333", in[1].UnitPrice.String(), "input must not be modified")
}

func TestCalculatorUsesConfiguredRate(t *testing.T) {
	calc := MustCalculator("0.15")
	assertTotals(t, calc.Calculate(lines("100", "1")), "100.00", "15.00", "115.00")

	zero := MustCalculator("0")
	assertTotals(t, zero.Calculate(lines("9.99", "2")), "19.98", "0.00", "19.98")
}

func TestParseTaxRate(t *testing.T) {
	rate, err := ParseTaxRate(" 0.05 ")
	require.NoError(t, err)
	assert.Equal(t, "0.05", rate.String())

	for _, raw := range []string{"", "abc", "-0.01", "1.5"} {
		_, err := ParseTaxRate(raw)
		assert.ErrorIs(t, err, ErrInvalidTaxRate, raw)
	}
}

func TestNewCalculatorRejectsOutOfRange(t *testing.T) {
	_, err := NewCalculator(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	c, err := NewCalculator(decimal.RequireFromString("1"))
	require.NoError(t, err)
	assert.Equal(t, "1", c.Rate().String())
}

func TestLineSubtotal(t *testing.T) {
	assert.Equal(t, "36.00", LineSubtotal(decimal.NewFromInt(18), 2).StringFixed(2))
	assert.Equal(t, "36.99", LineSubtotal(decimal.RequireFromString("12.333"), 3).StringFixed(2))
}
