package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct {
	pool *pgxpool.Pool
}

func NewCustomerRepo(pool *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepo{pool: pool}
}

// Save upserts by phone number. A returning buyer keeps their original row
// and ID; the caller's ID field is rewritten to match.
func (r *customerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	const q = `
INSERT INTO customers (id, name, phone_number, email, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (phone_number) DO UPDATE
  SET name   = EXCLUDED.name,
      email  = EXCLUDED.email,
      status = EXCLUDED.status
RETURNING id;
`
	row, err := pickRow(ctx, r.pool, tx, q, c.ID, c.Name, c.PhoneNumber, c.Email, c.Status, c.CreatedAt)
	if err != nil {
		return err
	}
	if err := row.Scan(&c.ID); err != nil {
		return fmt.Errorf("Save customer: %w", err)
	}
	return nil
}

func (r *customerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	const q = `
SELECT id, name, phone_number, email, status, created_at
  FROM customers
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCustomer(row)
}

func (r *customerRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.Customer, error) {
	const q = `
SELECT id, name, phone_number, email, status, created_at
  FROM customers
 WHERE phone_number = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, phone)
	if err != nil {
		return nil, err
	}
	return scanCustomer(row)
}

func (r *customerRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(1) FROM customers;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.Status, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}
