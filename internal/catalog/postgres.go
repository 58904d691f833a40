package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/platform/db"
)

const productColumns = `id, name, price::text, sku, category, stock_quantity, image_url, is_active, created_at, updated_at`

// PostgresProvider reads products from the products table.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider constructs the provider.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// ListProducts implements Provider.
func (p *PostgresProvider) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if filter.ActiveOnly {
		query += ` AND is_active = TRUE`
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY id`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, prod)
	}
	return products, rows.Err()
}

// GetProduct implements Provider.
func (p *PostgresProvider) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	prod, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return prod, err
}

// Upsert inserts or updates products by SKU, keeping their IDs.
func (p *PostgresProvider) Upsert(ctx context.Context, products []Product) error {
	batch := &pgx.Batch{}
	for _, c := range Categories() {
		batch.Queue(`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, string(c))
	}
	for _, prod := range products {
		batch.Queue(`INSERT INTO products (id, name, price, sku, category, stock_quantity, image_url, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, category = EXCLUDED.category,
    stock_quantity = EXCLUDED.stock_quantity, image_url = EXCLUDED.image_url, is_active = EXCLUDED.is_active, updated_at = NOW()`,
			prod.ID, prod.Name, prod.Price.StringFixed(2), prod.SKU, string(prod.Category), prod.StockQuantity, prod.ImageURL, prod.IsActive)
	}
	batch.Queue(`SELECT setval(pg_get_serial_sequence('products', 'id'), GREATEST((SELECT MAX(id) FROM products), 1))`)
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		prod     Product
		price    string
		category string
	)
	if err := row.Scan(&prod.ID, &prod.Name, &price, &prod.SKU, &category, &prod.StockQuantity,
		&prod.ImageURL, &prod.IsActive, &prod.CreatedAt, &prod.UpdatedAt); err != nil {
		return Product{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("product %d price %q: %w", prod.ID, price, err)
	}
	prod.Price = amount
	prod.Category = Category(category)
	return prod, nil
}
