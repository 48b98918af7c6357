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

var _ repository.AdminUserRepository = (*adminUserRepo)(nil)

type adminUserRepo struct {
	pool *pgxpool.Pool
}

func NewAdminUserRepo(pool *pgxpool.Pool) repository.AdminUserRepository {
	return &adminUserRepo{pool: pool}
}

func (r *adminUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.AdminUser) error {
	const q = `
INSERT INTO admin_users (id, username, role, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (username) DO UPDATE
  SET role = EXCLUDED.role;
`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Username, u.Role, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("Save admin user: %w", err)
	}
	return nil
}

func (r *adminUserRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.AdminUser, error) {
	const q = `
SELECT id, username, role, created_at
  FROM admin_users
 WHERE username = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, username)
	if err != nil {
		return nil, err
	}
	var u model.AdminUser
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &u, nil
}

func (r *adminUserRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.AdminUser, error) {
	const q = `
SELECT id, username, role, created_at
  FROM admin_users
 ORDER BY username ASC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("ListAll admin users: %w", err)
	}
	defer rows.Close()
	var out []*model.AdminUser
	for rows.Next() {
		var u model.AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
