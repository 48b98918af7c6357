package repository

import (
	"context"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
)

// LedgerEntry is an activation code joined with the customer phone and
// package details the admin console renders. PackageName falls back to
// "(deleted)" when the catalog row is gone.
type LedgerEntry struct {
	Code        model.ActivationCode
	PhoneNumber string
	PackageName string
	PriceKES    int64
}

// ActivationCodeRepository is the append-only activation ledger. There is
// deliberately no Delete: issued codes are an audit trail.
type ActivationCodeRepository interface {
	// Save inserts a new code or records the redeemed transition of an
	// existing one. Inserting a code string that collides with an unused
	// row fails with domain.ErrCodeCollision.
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ActivationCode, error)
	// FindUnusedByCode finds a single unredeemed code by its digit string.
	FindUnusedByCode(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)
	// List returns all ledger entries joined with customer phone and
	// package details, newest first. Filtering is the console's concern.
	List(ctx context.Context, tx Tx) ([]*LedgerEntry, error)
	CountIssued(ctx context.Context, tx Tx) (int, error)
	CountUsed(ctx context.Context, tx Tx) (int, error)
}

// CodeNotificationRepository records that the ops mailbox was told about a
// code. The unique constraint on code_id makes dispatch at-most-once.
type CodeNotificationRepository interface {
	Save(ctx context.Context, tx Tx, codeID string, sentAt time.Time) error
	Exists(ctx context.Context, tx Tx, codeID string) (bool, error)
}
