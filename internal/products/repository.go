package products

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
)

// Repository reads and writes active products. Soft-deleted rows are invisible to every
// lookup.
type Repository interface {
	Get(ctx context.Context, id int64) (Product, error)
	GetByName(ctx context.Context, name string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const selectActive = `SELECT id, name, description, price, deleted_at FROM products WHERE deleted_at IS NULL`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DeletedAt); err != nil {
		return Product{}, db.Translate(err)
	}
	return p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, selectActive+" AND id = $1", id))
}

func (r *repository) GetByName(ctx context.Context, name string) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, selectActive+" AND name = $1", name))
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, selectActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRow(ctx,
		"INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id",
		p.Name, p.Description, p.Price,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, db.Translate(err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Product) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE products SET name = $1, description = $2, price = $3 WHERE id = $4 AND deleted_at IS NULL",
		p.Name, p.Description, p.Price, p.ID,
	)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE products SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows)
	}
	return nil
}
