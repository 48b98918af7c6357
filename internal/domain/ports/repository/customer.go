package repository

import (
	"context"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
)

// CustomerRepository persists customers keyed by phone number.
type CustomerRepository interface {
	// Save upserts by phone number; the stored row keeps its original ID.
	Save(ctx context.Context, tx Tx, c *model.Customer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Customer, error)
	FindByPhone(ctx context.Context, tx Tx, phone string) (*model.Customer, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
