package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

type purchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepo(pool *pgxpool.Pool) repository.PurchaseRepository {
	return &purchaseRepo{pool: pool}
}

func (r *purchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	const q = `
INSERT INTO purchases (id, reference, customer_id, package_id, amount_kes, status, created_at, confirmed_at, activation_code_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  status             = EXCLUDED.status,
  confirmed_at       = EXCLUDED.confirmed_at,
  activation_code_id = EXCLUDED.activation_code_id;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Reference, p.CustomerID, p.PackageID, p.AmountKES, p.Status, p.CreatedAt, p.ConfirmedAt, p.ActivationCodeID,
	)
	if err != nil {
		return fmt.Errorf("Save purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	const q = purchaseSelect + ` WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPurchase(row)
}

// FindByReference locks the row when called inside a transaction, so
// concurrent gateway callbacks serialize on the same pending purchase
// instead of both issuing a code.
func (r *purchaseRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Purchase, error) {
	q := purchaseSelect + ` WHERE reference = $1`
	if _, ok := tx.(pgx.Tx); ok {
		q += ` FOR UPDATE`
	}
	row, err := pickRow(ctx, r.pool, tx, q+`;`, reference)
	if err != nil {
		return nil, err
	}
	return scanPurchase(row)
}

func (r *purchaseRepo) ListStalePending(ctx context.Context, tx repository.Tx, cutoff time.Time) ([]*model.Purchase, error) {
	const q = purchaseSelect + ` WHERE status = 'pending' AND created_at < $1 ORDER BY created_at ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ListStalePending: %w", err)
	}
	defer rows.Close()

	var out []*model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.CustomerID, &p.PackageID, &p.AmountKES, &p.Status, &p.CreatedAt, &p.ConfirmedAt, &p.ActivationCodeID); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *purchaseRepo) SumConfirmed(ctx context.Context, tx repository.Tx, since time.Time) (int64, error) {
	const q = `
SELECT COALESCE(SUM(amount_kes), 0)
  FROM purchases
 WHERE status = 'confirmed' AND ($1::timestamptz IS NULL OR created_at >= $1);
`
	var arg interface{}
	if !since.IsZero() {
		arg = since
	}
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

const purchaseSelect = `
SELECT id, reference, customer_id, package_id, amount_kes, status, created_at, confirmed_at, activation_code_id
  FROM purchases`

func scanPurchase(row pgx.Row) (*model.Purchase, error) {
	var p model.Purchase
	err := row.Scan(&p.ID, &p.Reference, &p.CustomerID, &p.PackageID, &p.AmountKES, &p.Status, &p.CreatedAt, &p.ConfirmedAt, &p.ActivationCodeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}
