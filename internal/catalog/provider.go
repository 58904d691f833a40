package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Provider supplies products.
type Provider interface {
	ListProducts(ctx context.Context, filter Filter) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
}

// MemoryProvider keeps the menu in process.
type MemoryProvider struct {
	mu       sync.RWMutex
	products []Product
}

// NewMemoryProvider returns a provider over products, ordered by ID.
func NewMemoryProvider(products []Product) *MemoryProvider {
	cp := slices.Clone(products)
	slices.SortStableFunc(cp, func(a, b Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return &MemoryProvider{products: cp}
}

// NewSeededProvider returns a memory provider over the default menu.
func NewSeededProvider() *MemoryProvider {
	return NewMemoryProvider(SeedProducts())
}

// ListProducts implements Provider.
func (m *MemoryProvider) ListProducts(_ context.Context, filter Filter) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProduct implements Provider.
func (m *MemoryProvider) GetProduct(_ context.Context, id int64) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// SetPrice changes the price of a product.
func (m *MemoryProvider) SetPrice(id int64, price decimal.Decimal) error {
	return m.update(id, func(p *Product) { p.Price = price })
}

// SetActive toggles whether a product can be sold.
func (m *MemoryProvider) SetActive(id int64, active bool) error {
	return m.update(id, func(p *Product) { p.IsActive = active })
}

func (m *MemoryProvider) update(id int64, fn func(*Product)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			fn(&m.products[i])
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
