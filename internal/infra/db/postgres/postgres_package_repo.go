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

// Ensure interface compliance
var _ repository.WifiPackageRepository = (*PostgresPackageRepo)(nil)

type PostgresPackageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPackageRepo(pool *pgxpool.Pool) *PostgresPackageRepo {
	return &PostgresPackageRepo{pool: pool}
}

func (r *PostgresPackageRepo) Save(ctx context.Context, tx repository.Tx, pkg *model.WifiPackage) error {
	const q = `
INSERT INTO wifi_packages (id, name, price_kes, speed_mbps, duration_hours, description, popular, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE
  SET name           = EXCLUDED.name,
      price_kes      = EXCLUDED.price_kes,
      speed_mbps     = EXCLUDED.speed_mbps,
      duration_hours = EXCLUDED.duration_hours,
      description    = EXCLUDED.description,
      popular        = EXCLUDED.popular;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		pkg.ID, pkg.Name, pkg.PriceKES, pkg.SpeedMbps, pkg.DurationHours, pkg.Description, pkg.Popular, pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save package: %w", err)
	}
	return nil
}

func (r *PostgresPackageRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM wifi_packages WHERE id = $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return fmt.Errorf("Delete package: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.WifiPackage, error) {
	const q = `
SELECT id, name, price_kes, speed_mbps, duration_hours, description, popular, created_at
  FROM wifi_packages
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var p model.WifiPackage
	if err := row.Scan(&p.ID, &p.Name, &p.PriceKES, &p.SpeedMbps, &p.DurationHours, &p.Description, &p.Popular, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *PostgresPackageRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.WifiPackage, error) {
	const q = `
SELECT id, name, price_kes, speed_mbps, duration_hours, description, popular, created_at
  FROM wifi_packages
 ORDER BY price_kes ASC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("ListAll packages: %w", err)
	}
	defer rows.Close()
	var out []*model.WifiPackage
	for rows.Next() {
		var p model.WifiPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceKES, &p.SpeedMbps, &p.DurationHours, &p.Description, &p.Popular, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
