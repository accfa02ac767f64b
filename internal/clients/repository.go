package clients

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
)

// Repository persists clients and their address and phone.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Client, error)
	GetByCPF(ctx context.Context, cpf string) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context) ([]Listing, error)
	Create(ctx context.Context, client Client) (int64, error)
	CreateAddress(ctx context.Context, address Address) (int64, error)
	CreatePhone(ctx context.Context, phone Phone) (int64, error)
	GetAddress(ctx context.Context, clientID int64) (*Address, error)
	GetPhone(ctx context.Context, clientID int64) (*Phone, error)
	ListSales(ctx context.Context, clientID int64) ([]Sale, error)
	Update(ctx context.Context, client Client) error
	UpdateAddress(ctx context.Context, address Address) error
	UpdatePhone(ctx context.Context, phone Phone) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const clientColumns = "id, name, email, cpf"

func (r *repository) getBy(ctx context.Context, column string, value any) (*Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE %s = $1", clientColumns, column)
	var c Client
	if err := r.db.QueryRow(ctx, query, value).Scan(&c.ID, &c.Name, &c.Email, &c.CPF); err != nil {
		return nil, db.Translate(err)
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Client, error) {
	return r.getBy(ctx, "id", id)
}

func (r *repository) GetByCPF(ctx context.Context, cpf string) (*Client, error) {
	return r.getBy(ctx, "cpf", cpf)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Client, error) {
	return r.getBy(ctx, "email", email)
}

func (r *repository) List(ctx context.Context) ([]Listing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.email, c.cpf, a.id, p.number
		FROM clients c
		JOIN addresses a ON a.client_id = c.id
		JOIN phones p ON p.client_id = c.id
		ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.CPF, &l.AddressID, &l.Phone); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *repository) Create(ctx context.Context, client Client) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		"INSERT INTO clients (name, email, cpf) VALUES ($1, $2, $3) RETURNING id",
		client.Name, client.Email, client.CPF,
	).Scan(&id)
	return id, db.Translate(err)
}

func (r *repository) CreateAddress(ctx context.Context, a Address) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO addresses (client_id, street, number, complement, neighborhood, cep, city, uf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		a.ClientID, a.Street, a.Number, a.Complement, a.Neighborhood, a.CEP, a.City, a.UF,
	).Scan(&id)
	return id, db.Translate(err)
}

func (r *repository) CreatePhone(ctx context.Context, p Phone) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		"INSERT INTO phones (client_id, number) VALUES ($1, $2) RETURNING id",
		p.ClientID, p.Number,
	).Scan(&id)
	return id, db.Translate(err)
}

func (r *repository) GetAddress(ctx context.Context, clientID int64) (*Address, error) {
	var a Address
	err := r.db.QueryRow(ctx, `
		SELECT id, client_id, street, number, COALESCE(complement, ''), neighborhood, cep, city, uf
		FROM addresses WHERE client_id = $1`, clientID,
	).Scan(&a.ID, &a.ClientID, &a.Street, &a.Number, &a.Complement, &a.Neighborhood, &a.CEP, &a.City, &a.UF)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &a, nil
}

func (r *repository) GetPhone(ctx context.Context, clientID int64) (*Phone, error) {
	var p Phone
	err := r.db.QueryRow(ctx,
		"SELECT id, client_id, number FROM phones WHERE client_id = $1", clientID,
	).Scan(&p.ID, &p.ClientID, &p.Number)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &p, nil
}

func (r *repository) ListSales(ctx context.Context, clientID int64) ([]Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, quantity, unit_price, total_price, created_at
		FROM sales
		WHERE client_id = $1
		ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalPrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) Update(ctx context.Context, c Client) error {
	_, err := r.db.Exec(ctx,
		"UPDATE clients SET name = $1, email = $2, cpf = $3 WHERE id = $4",
		c.Name, c.Email, c.CPF, c.ID,
	)
	return db.Translate(err)
}

func (r *repository) UpdateAddress(ctx context.Context, a Address) error {
	_, err := r.db.Exec(ctx, `
		UPDATE addresses
		SET street = $1, number = $2, complement = $3, neighborhood = $4, cep = $5, city = $6, uf = $7
		WHERE id = $8`,
		a.Street, a.Number, a.Complement, a.Neighborhood, a.CEP, a.City, a.UF, a.ID,
	)
	return db.Translate(err)
}

func (r *repository) UpdatePhone(ctx context.Context, p Phone) error {
	_, err := r.db.Exec(ctx, "UPDATE phones SET number = $1 WHERE id = $2", p.Number, p.ID)
	return db.Translate(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows)
	}
	return nil
}
