package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

var _ repository.CodeNotificationRepository = (*codeNotificationRepo)(nil)

type codeNotificationRepo struct {
	pool *pgxpool.Pool
}

func NewCodeNotificationRepo(pool *pgxpool.Pool) repository.CodeNotificationRepository {
	return &codeNotificationRepo{pool: pool}
}

// Save records a dispatched notification. The UNIQUE constraint on code_id
// is the at-most-once guarantee; a duplicate insert surfaces as
// domain.ErrAlreadyExists.
func (r *codeNotificationRepo) Save(ctx context.Context, tx repository.Tx, codeID string, sentAt time.Time) error {
	const q = `
INSERT INTO code_notifications (id, code_id, sent_at)
VALUES ($1, $2, $3)`

	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), codeID, sentAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *codeNotificationRepo) Exists(ctx context.Context, tx repository.Tx, codeID string) (bool, error) {
	// SELECT EXISTS(...) stops on the first match.
	const q = `
SELECT EXISTS(
    SELECT 1 FROM code_notifications WHERE code_id = $1
)`
	row, err := pickRow(ctx, r.pool, tx, q, codeID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
