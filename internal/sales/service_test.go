package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/shared"
)

// failingStore fails the first n Record calls.
type failingStore struct {
	*MemoryStore
	failures int
	calls    int
}

func (f *failingStore) Record(ctx context.Context, sale Sale) (Sale, error) {
	f.calls++
	if f.calls <= f.failures {
		return Sale{}, errors.New("connection reset by peer")
	}
	return f.MemoryStore.Record(ctx, sale)
}

func validRequest(number string) RecordSaleRequest {
	return RecordSaleRequest{
		SaleNumber:    number,
		Subtotal:      decimal.RequireFromString("18.00"),
		TaxAmount:     decimal.RequireFromString("0.90"),
		TotalAmount:   decimal.RequireFromString("18.90"),
		PaymentMethod: PaymentCash,
		Items: []RecordSaleItemReq{
			{ProductID: 2, ProductName: "Latte", Quantity: 1, UnitPrice: decimal.NewFromInt(18), Subtotal: decimal.NewFromInt(18)},
		},
	}
}

func newIdempotency(t *testing.T) *shared.IdempotencyStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return shared.NewIdempotencyStore(client, time.Hour)
}

func TestRecordSaleRequestValidate(t *testing.T) {
	require.NoError(t, validRequest("SAL-OK00001").Validate())

	tests := []struct {
		name   string
		mutate func(*RecordSaleRequest)
	}{
		{name: "missing number", mutate: func(r *RecordSaleRequest) { r.SaleNumber = "" }},
		{name: "number too long", mutate: func(r *RecordSaleRequest) { r.SaleNumber = "SAL-0123456789ABCDEFG" }},
		{name: "bad method", mutate: func(r *RecordSaleRequest) { r.PaymentMethod = "cheque" }},
		{name: "no items", mutate: func(r *RecordSaleRequest) { r.Items = nil }},
		{name: "zero quantity", mutate: func(r *RecordSaleRequest) { r.Items[0].Quantity = 0 }},
		{name: "missing name", mutate: func(r *RecordSaleRequest) { r.Items[0].ProductName = "" }},
		{name: "negative total", mutate: func(r *RecordSaleRequest) { r.TotalAmount = decimal.NewFromInt(-1) }},
		{name: "negative unit price", mutate: func(r *RecordSaleRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-5) }},
		{name: "sub-cent subtotal", mutate: func(r *RecordSaleRequest) { r.Subtotal = decimal.RequireFromString("12.333") }},
		{name: "sub-cent item price", mutate: func(r *RecordSaleRequest) { r.Items[0].UnitPrice = decimal.RequireFromString("18.005") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("SAL-BAD0001")
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), httpx.ErrValidation)
		})
	}
}

func TestRecordSaleRequestAcceptsWholeCents(t *testing.T) {
	req := validRequest("SAL-OK00002")
	req.TaxAmount = decimal.RequireFromString("0.900")
	assert.NoError(t, req.Validate())
}

func TestServiceRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil, nil)

	sale, err := svc.Record(ctx, validRequest("SAL-REC0001"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sale.ID)
	assert.Equal(t, StatusCompleted, sale.Status)
	assert.False(t, sale.CreatedAt.IsZero())

	_, err = svc.Record(ctx, validRequest("SAL-REC0001"), "")
	assert.ErrorIs(t, err, ErrDuplicate)

	recent, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestServiceRecordIdempotency(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), newIdempotency(t), nil)

	_, err := svc.Record(ctx, validRequest("SAL-IDM0001"), "key-1")
	require.NoError(t, err)

	_, err = svc.Record(ctx, validRequest("SAL-IDM0002"), "key-1")
	assert.ErrorIs(t, err, ErrReplayed)
	assert.ErrorIs(t, err, httpx.ErrConflict)

	_, err = svc.Record(ctx, validRequest("SAL-IDM0002"), "key-2")
	require.NoError(t, err)
}

func TestServiceReleasesKeyOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore(), failures: 1}
	svc := NewService(store, newIdempotency(t), nil)

	_, err := svc.Record(ctx, validRequest("SAL-RTY0001"), "retry-key")
	require.Error(t, err)

	sale, err := svc.Record(ctx, validRequest("SAL-RTY0001"), "retry-key")
	require.NoError(t, err)
	assert.Equal(t, "SAL-RTY0001", sale.SaleNumber)
}

func TestServiceRecentNeverNil(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	recent, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}
