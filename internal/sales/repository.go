package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quickpos/quickpos/internal/platform/db"
)

const uniqueViolation = "23505"

// PostgresStore provides PostgreSQL backed persistence for sales.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// txRepo exposes the statements that run inside one transaction.
type txRepo struct {
	tx pgx.Tx
}

// Record implements Store. The header and every item are written in one
// transaction; on any failure nothing is stored.
func (r *PostgresStore) Record(ctx context.Context, sale Sale) (Sale, error) {
	stored := sale.Rounded()
	if stored.Status == "" {
		stored.Status = StatusCompleted
	}
	err := db.WithTx(ctx, r.pool, func(pgTx pgx.Tx) error {
		tx := &txRepo{tx: pgTx}
		if err := tx.insertSale(ctx, &stored); err != nil {
			return err
		}
		for _, item := range stored.Items {
			if err := tx.insertItem(ctx, stored.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Sale{}, fmt.Errorf("%w: %s", ErrDuplicate, sale.SaleNumber)
		}
		return Sale{}, fmt.Errorf("record sale %s: %w", sale.SaleNumber, err)
	}
	return stored, nil
}

func (t *txRepo) insertSale(ctx context.Context, sale *Sale) error {
	const query = `INSERT INTO sales (sale_number, subtotal, tax_amount, total_amount, payment_method, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
RETURNING id, created_at`
	var createdAt pgtype.Timestamptz
	if !sale.CreatedAt.IsZero() {
		createdAt = pgtype.Timestamptz{Time: sale.CreatedAt, Valid: true}
	}
	return t.tx.QueryRow(ctx, query,
		sale.SaleNumber,
		sale.Subtotal.StringFixed(2),
		sale.TaxAmount.StringFixed(2),
		sale.TotalAmount.StringFixed(2),
		string(sale.PaymentMethod),
		string(sale.Status),
		createdAt,
	).Scan(&sale.ID, &sale.CreatedAt)
}

func (t *txRepo) insertItem(ctx context.Context, saleID int64, item SaleItem) error {
	const query = `INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5, $6)`
	productID := pgtype.Int8{Int64: item.ProductID, Valid: item.ProductID > 0}
	_, err := t.tx.Exec(ctx, query,
		saleID,
		productID,
		item.ProductName,
		item.Quantity,
		item.UnitPrice.StringFixed(2),
		item.Subtotal.StringFixed(2),
	)
	return err
}

const saleColumns = `id, sale_number, subtotal::text, tax_amount::text, total_amount::text, payment_method, status, created_at`

// ListRecent implements Store.
func (r *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var (
		out []Sale
		ids []int64
	)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
		ids = append(ids, sale.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

// GetByNumber implements Store.
func (r *PostgresStore) GetByNumber(ctx context.Context, saleNumber string) (Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE sale_number = $1`, saleNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, fmt.Errorf("%w: %s", ErrNotFound, saleNumber)
		}
		return Sale{}, err
	}
	items, err := r.loadItems(ctx, []int64{sale.ID})
	if err != nil {
		return Sale{}, err
	}
	sale.Items = items[sale.ID]
	return sale, nil
}

func (r *PostgresStore) loadItems(ctx context.Context, saleIDs []int64) (map[int64][]SaleItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT sale_id, product_id, product_name, quantity, unit_price::text, subtotal::text
FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, id`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]SaleItem, len(saleIDs))
	for rows.Next() {
		var (
			saleID    int64
			productID pgtype.Int8
			item      SaleItem
			unitPrice string
			subtotal  string
		)
		if err := rows.Scan(&saleID, &productID, &item.ProductName, &item.Quantity, &unitPrice, &subtotal); err != nil {
			return nil, err
		}
		item.ProductID = productID.Int64
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, err
		}
		if item.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
			return nil, err
		}
		items[saleID] = append(items[saleID], item)
	}
	return items, rows.Err()
}

func scanSale(row pgx.Row) (Sale, error) {
	var (
		sale                  Sale
		subtotal, tax, total  string
		paymentMethod, status string
	)
	if err := row.Scan(&sale.ID, &sale.SaleNumber, &subtotal, &tax, &total, &paymentMethod, &status, &sale.CreatedAt); err != nil {
		return Sale{}, err
	}
	var err error
	if sale.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Sale{}, err
	}
	if sale.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return Sale{}, err
	}
	if sale.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return Sale{}, err
	}
	sale.PaymentMethod = PaymentMethod(paymentMethod)
	sale.Status = Status(status)
	return sale, nil
}
