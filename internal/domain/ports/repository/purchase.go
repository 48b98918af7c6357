package repository

import (
	"context"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
)

// PurchaseRepository persists the payment boundary rows.
type PurchaseRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Purchase) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Purchase, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Purchase, error)
	// ListStalePending returns pending purchases created before cutoff,
	// for the reconciler to time out.
	ListStalePending(ctx context.Context, tx Tx, cutoff time.Time) ([]*model.Purchase, error)
	// SumConfirmed totals confirmed purchase amounts created at or after
	// since. A zero since sums everything.
	SumConfirmed(ctx context.Context, tx Tx, since time.Time) (int64, error)
}
