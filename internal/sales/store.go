package sales

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Store persists sales.
type Store interface {
	// Record stores sale and returns it with its storage ID and timestamp.
	Record(ctx context.Context, sale Sale) (Sale, error)
	// ListRecent returns up to limit sales, most recent first.
	ListRecent(ctx context.Context, limit int) ([]Sale, error)
	// GetByNumber returns the sale recorded under saleNumber.
	GetByNumber(ctx context.Context, saleNumber string) (Sale, error)
}

// MemoryStore keeps sales in process; they are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	sales []Sale
	now   func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Record implements Store.
func (m *MemoryStore) Record(_ context.Context, sale Sale) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.sales {
		if existing.SaleNumber == sale.SaleNumber {
			return Sale{}, fmt.Errorf("%w: %s", ErrDuplicate, sale.SaleNumber)
		}
	}
	stored := sale.Rounded()
	stored.ID = int64(len(m.sales) + 1)
	if stored.Status == "" {
		stored.Status = StatusCompleted
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	m.sales = append(m.sales, stored)
	return stored.Clone(), nil
}

// ListRecent implements Store.
func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]Sale, error) {
	limit = clampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	start := max(len(m.sales)-limit, 0)
	out := make([]Sale, 0, len(m.sales)-start)
	for _, s := range m.sales[start:] {
		out = append(out, s.Clone())
	}
	slices.Reverse(out)
	return out, nil
}

// GetByNumber implements Store.
func (m *MemoryStore) GetByNumber(_ context.Context, saleNumber string) (Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sales {
		if s.SaleNumber == saleNumber {
			return s.Clone(), nil
		}
	}
	return Sale{}, fmt.Errorf("%w: %s", ErrNotFound, saleNumber)
}
