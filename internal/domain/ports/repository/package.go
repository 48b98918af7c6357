package repository

import (
	"context"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
)

// WifiPackageRepository persists the package catalog.
type WifiPackageRepository interface {
	Save(ctx context.Context, tx Tx, pkg *model.WifiPackage) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.WifiPackage, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.WifiPackage, error)
}
