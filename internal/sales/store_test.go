package sales

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSale(number string) Sale {
	return Sale{
		SaleNumber:    number,
		Subtotal:      decimal.RequireFromString("50.00"),
		TaxAmount:     decimal.RequireFromString("2.50"),
		TotalAmount:   decimal.RequireFromString("52.50"),
		PaymentMethod: PaymentCard,
		Items: []SaleItem{
			{ProductID: 2, ProductName: "Latte", Quantity: 2, UnitPrice: decimal.NewFromInt(18), Subtotal: decimal.NewFromInt(36)},
			{ProductID: 4, ProductName: "Americano", Quantity: 1, UnitPrice: decimal.NewFromInt(14), Subtotal: decimal.NewFromInt(14)},
		},
	}
}

func TestMemoryStoreRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	stored, err := store.Record(ctx, sampleSale("SAL-AAAA001"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, fixed, stored.CreatedAt)
	assert.Equal(t, 3, stored.ItemCount())

	got, err := store.GetByNumber(ctx, "SAL-AAAA001")
	require.NoError(t, err)
	assert.Equal(t, "52.50", got.TotalAmount.StringFixed(2))
	assert.Equal(t, PaymentCard, got.PaymentMethod)
	assert.Len(t, got.Items, 2)

	_, err = store.GetByNumber(ctx, "SAL-NOPE000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRoundsAmounts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sale := sampleSale("SAL-ROUND01")
	sale.Subtotal = decimal.RequireFromString("50.004")
	sale.TaxAmount = decimal.RequireFromString("2.505")
	sale.Items[0].UnitPrice = decimal.RequireFromString("17.996")

	stored, err := store.Record(ctx, sale)
	require.NoError(t, err)
	assert.True(t, stored.Subtotal.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, stored.TaxAmount.Equal(decimal.RequireFromString("2.51")))
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(18)))

	got, err := store.GetByNumber(ctx, "SAL-ROUND01")
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(stored.Subtotal))
	assert.True(t, got.TaxAmount.Equal(stored.TaxAmount))
	assert.True(t, sale.SameContent(got))
}

func TestSaleSameContent(t *testing.T) {
	a := sampleSale("SAL-SAME001")
	b := a.Clone()
	b.ID = 7
	b.Status = StatusCompleted
	b.CreatedAt = time.Now()
	assert.True(t, a.SameContent(b))

	c := a.Clone()
	c.PaymentMethod = PaymentCash
	assert.False(t, a.SameContent(c))

	d := a.Clone()
	d.Items[1].Quantity = 2
	assert.False(t, a.SameContent(d))

	e := a.Clone()
	e.TotalAmount = decimal.RequireFromString("52.51")
	assert.False(t, a.SameContent(e))

	assert.False(t, a.SameContent(sampleSale("SAL-SAME002")))
}

func TestMemoryStoreRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Record(ctx, sampleSale("SAL-DUP0001"))
	require.NoError(t, err)
	_, err = store.Record(ctx, sampleSale("SAL-DUP0001"))
	assert.ErrorIs(t, err, ErrDuplicate)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sale := sampleSale("SAL-ISO0001")

	stored, err := store.Record(ctx, sale)
	require.NoError(t, err)
	sale.Items[0].Quantity = 99
	stored.Items[1].ProductName = "changed"

	got, err := store.GetByNumber(ctx, "SAL-ISO0001")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Americano", got.Items[1].ProductName)
}

func TestMemoryStoreListRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 1; i <= 25; i++ {
		_, err := store.Record(ctx, sampleSale(fmt.Sprintf("SAL-%07d", i)))
		require.NoError(t, err)
	}

	recent, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultListLimit)
	assert.Equal(t, "SAL-0000025", recent[0].SaleNumber)
	assert.Equal(t, "SAL-0000006", recent[19].SaleNumber)

	three, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"SAL-0000025", "SAL-0000024", "SAL-0000023"},
		[]string{three[0].SaleNumber, three[1].SaleNumber, three[2].SaleNumber})

	all, err := store.ListRecent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, all, 25)
}

func TestMemoryStoreConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Record(ctx, sampleSale(fmt.Sprintf("SAL-C%06d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := store.ListRecent(ctx, MaxListLimit)
	require.NoError(t, err)
	assert.Len(t, all, 50)
	ids := make(map[int64]struct{})
	for _, s := range all {
		ids[s.ID] = struct{}{}
	}
	assert.Len(t, ids, 50)
}

func TestPaymentMethod(t *testing.T) {
	for _, raw := range []string{"cash", "card", "credit"} {
		m, err := ParsePaymentMethod(raw)
		require.NoError(t, err)
		assert.True(t, m.Valid())
	}
	_, err := ParsePaymentMethod("bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Equal(t, "Card", PaymentCard.Label())
}
