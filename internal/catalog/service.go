package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Service exposes menu queries on top of a Provider.
type Service struct {
	provider Provider
	logger   *slog.Logger
	group    singleflight.Group
}

// NewService constructs the catalog service.
func NewService(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, logger: logger}
}

// ActiveProducts lists sellable products, optionally restricted to one category.
func (s *Service) ActiveProducts(ctx context.Context, category Category) ([]Product, error) {
	filter := Filter{Category: category, ActiveOnly: true}
	v, err, shared := s.group.Do("list:"+string(category), func() (any, error) {
		return s.provider.ListProducts(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	if shared {
		s.logger.Debug("catalog load shared", "category", category)
	}
	products := v.([]Product)
	out := make([]Product, len(products))
	copy(out, products)
	return out, nil
}

// Search returns active products matching q. Text matches case-insensitively
// anywhere in the name, SKU or category.
func (s *Service) Search(ctx context.Context, q Query) ([]Product, error) {
	products, err := s.ActiveProducts(ctx, q.Category)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return products, nil
	}
	out := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.SKU), needle) ||
			strings.Contains(strings.ToLower(string(p.Category)), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns one product regardless of its active flag.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	v, err, _ := s.group.Do("product:"+strconv.FormatInt(id, 10), func() (any, error) {
		return s.provider.GetProduct(ctx, id)
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}
