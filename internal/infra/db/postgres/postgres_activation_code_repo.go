package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

// Save inserts a new code or records the redeemed transition of an
// existing one. A partial unique index on (code) WHERE NOT used backs the
// collision check; redeemed codes free their digits for reuse.
//
// Inside an open transaction the write runs under a savepoint: a unique
// violation would otherwise abort the whole transaction, leaving the
// caller unable to retry with fresh digits.
func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	outer, ok := tx.(pgx.Tx)
	if !ok {
		return r.upsert(ctx, tx, code)
	}
	sp, err := outer.Begin(ctx)
	if err != nil {
		return fmt.Errorf("Save activation code: %w", err)
	}
	if err := r.upsert(ctx, sp, code); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

func (r *activationCodeRepo) upsert(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes (id, code, customer_id, package_id, issued_at, expires_at, used, used_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  used    = EXCLUDED.used,
  used_at = EXCLUDED.used_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.Code, code.CustomerID, code.PackageID, code.IssuedAt, code.ExpiresAt, code.Used, code.UsedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			metrics.IncCodeCollisionRetry()
			return domain.ErrCodeCollision
		}
		return fmt.Errorf("Save activation code: %w", err)
	}
	return nil
}

func (r *activationCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ActivationCode, error) {
	const q = `
SELECT id, code, customer_id, package_id, issued_at, expires_at, used, used_at
  FROM activation_codes
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCode(row)
}

// FindUnusedByCode finds a single, unredeemed activation code.
// This is the primary method used during the redemption flow.
func (r *activationCodeRepo) FindUnusedByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	const q = `
SELECT id, code, customer_id, package_id, issued_at, expires_at, used, used_at
  FROM activation_codes
 WHERE code = $1 AND used = FALSE;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanCode(row)
}

func (r *activationCodeRepo) List(ctx context.Context, tx repository.Tx) ([]*repository.LedgerEntry, error) {
	const q = `
SELECT ac.id, ac.code, ac.customer_id, ac.package_id, ac.issued_at, ac.expires_at, ac.used, ac.used_at,
       COALESCE(c.phone_number, ''),
       COALESCE(p.name, '(deleted)'),
       COALESCE(p.price_kes, 0)
  FROM activation_codes ac
  LEFT JOIN customers c ON c.id = ac.customer_id
  LEFT JOIN wifi_packages p ON p.id = ac.package_id
 ORDER BY ac.issued_at DESC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("List activation codes: %w", err)
	}
	defer rows.Close()

	var out []*repository.LedgerEntry
	for rows.Next() {
		var e repository.LedgerEntry
		if err := rows.Scan(
			&e.Code.ID, &e.Code.Code, &e.Code.CustomerID, &e.Code.PackageID,
			&e.Code.IssuedAt, &e.Code.ExpiresAt, &e.Code.Used, &e.Code.UsedAt,
			&e.PhoneNumber, &e.PackageName, &e.PriceKES,
		); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *activationCodeRepo) CountIssued(ctx context.Context, tx repository.Tx) (int, error) {
	return r.count(ctx, tx, `SELECT COUNT(1) FROM activation_codes;`)
}

func (r *activationCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	return r.count(ctx, tx, `SELECT COUNT(1) FROM activation_codes WHERE used = TRUE;`)
}

func (r *activationCodeRepo) count(ctx context.Context, tx repository.Tx, q string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanCode(row pgx.Row) (*model.ActivationCode, error) {
	var ac model.ActivationCode
	err := row.Scan(
		&ac.ID, &ac.Code, &ac.CustomerID, &ac.PackageID, &ac.IssuedAt, &ac.ExpiresAt, &ac.Used, &ac.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}
