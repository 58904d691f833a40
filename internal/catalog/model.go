// Package catalog serves the product menu to registers and the HTTP API.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/platform/httpx"
)

var (
	ErrNotFound        = fmt.Errorf("product %w", httpx.ErrNotFound)
	ErrUnknownCategory = fmt.Errorf("unknown category: %w", httpx.ErrValidation)
)

// Category groups products on the menu.
type Category string

const (
	CategoryHotDrinks  Category = "Hot Drinks"
	CategoryColdDrinks Category = "Cold Drinks"
	CategoryAppetizers Category = "Appetizers"
	CategoryMainCourse Category = "Main Course"
	CategoryDesserts   Category = "Desserts"
	CategorySides      Category = "Sides"
)

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

// Categories lists every category in menu order.
func Categories() []Category {
	return []Category{
		CategoryHotDrinks,
		CategoryColdDrinks,
		CategoryAppetizers,
		CategoryMainCourse,
		CategoryDesserts,
		CategorySides,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a filter value. Empty and "All" return "" meaning no filter.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllCategories) {
		return "", nil
	}
	for _, known := range Categories() {
		if strings.EqualFold(raw, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Product is a sellable menu item.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	SKU           string          `json:"sku"`
	Category      Category        `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      *string         `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// Filter narrows ListProducts.
type Filter struct {
	Category   Category
	ActiveOnly bool
}

func (f Filter) match(p Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// Query is a menu search from the register screen.
type Query struct {
	Category Category
	Text     string
}

type seedProduct struct {
	id       int64
	name     string
	price    string
	sku      string
	category Category
	stock    int
	image    string
	active   bool
}

// SeedProducts returns the default menu.
func SeedProducts() []Product {
	out := make([]Product, 0, len(seedProducts))
	for _, s := range seedProducts {
		p := Product{
			ID:            s.id,
			Name:          s.name,
			Price:         decimal.RequireFromString(s.price),
			SKU:           s.sku,
			Category:      s.category,
			StockQuantity: s.stock,
			IsActive:      s.active,
		}
		if s.image != "" {
			img := s.image
			p.ImageURL = &img
		}
		out = append(out, p)
	}
	return out
}
