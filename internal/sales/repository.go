package sales

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for sales.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations used while recording a sale.
type TxRepository interface {
	ProductPrice(ctx context.Context, productID int64) (decimal.Decimal, error)
	ClientExists(ctx context.Context, clientID int64) (bool, error)
	InsertSale(ctx context.Context, sale Sale) (int64, error)
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// ProductPrice returns the current price of an active product. The row is share-locked so
// the price cannot change before the sale commits.
func (t *txRepo) ProductPrice(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := t.tx.QueryRow(ctx,
		"SELECT price FROM products WHERE id = $1 AND deleted_at IS NULL FOR SHARE", productID,
	).Scan(&price)
	if err != nil {
		return decimal.Decimal{}, db.Translate(err)
	}
	return price, nil
}

func (t *txRepo) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)", clientID).Scan(&exists)
	return exists, err
}

func (t *txRepo) InsertSale(ctx context.Context, s Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO sales (client_id, product_id, quantity, unit_price, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		s.ClientID, s.ProductID, s.Quantity, s.UnitPrice, s.TotalPrice, s.CreatedAt,
	).Scan(&id)
	return id, db.Translate(err)
}
