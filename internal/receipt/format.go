// Package receipt formats money, timestamps and printable receipts.
package receipt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultCurrency = "AED"
	DefaultTimezone = "Asia/Dubai"
	DefaultStore    = "QuickPOS F&B"

	// LongLayout is used on receipts and the register header.
	LongLayout = "Mon, 2 Jan 2006 3:04 PM"
	// ClockLayout is the compact running clock.
	ClockLayout = "03:04:05 PM"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders amount as "<code> 1,234.50".
func FormatCurrency(code string, amount decimal.Decimal) string {
	return code + " " + printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// LoadLocation resolves name, falling back to UTC when the zone database
// does not know it. The returned error reports the fallback.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

// Formatter renders display strings for one store.
type Formatter struct {
	currency  string
	storeName string
	loc       *time.Location
	vatLabel  string
}

// NewFormatter constructs a Formatter. Empty values use the defaults and a
// nil location uses UTC.
func NewFormatter(currency, storeName string, loc *time.Location, taxRate decimal.Decimal) *Formatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	if storeName == "" {
		storeName = DefaultStore
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		currency:  currency,
		storeName: storeName,
		loc:       loc,
		vatLabel:  "VAT (" + taxRate.Mul(decimal.NewFromInt(100)).String() + "%)",
	}
}

// Currency formats amount in the store currency.
func (f *Formatter) Currency(amount decimal.Decimal) string {
	return FormatCurrency(f.currency, amount)
}

// Long formats t for receipts.
func (f *Formatter) Long(t time.Time) string {
	return t.In(f.loc).Format(LongLayout)
}

// Clock formats t as a running clock.
func (f *Formatter) Clock(t time.Time) string {
	return t.In(f.loc).Format(ClockLayout)
}

// StoreName returns the header printed on receipts.
func (f *Formatter) StoreName() string { return f.storeName }
