package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase manages the package catalog the storefront sells from.
type CatalogUseCase interface {
	Create(ctx context.Context, name string, priceKES int64, speedMbps, durationHours int, description string, popular bool) (*model.WifiPackage, error)
	Update(ctx context.Context, pkg *model.WifiPackage) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.WifiPackage, error)
	List(ctx context.Context) ([]*model.WifiPackage, error)
}

type catalogUC struct {
	packages repository.WifiPackageRepository
}

func NewCatalogUseCase(packages repository.WifiPackageRepository) *catalogUC {
	return &catalogUC{packages: packages}
}

func (uc *catalogUC) Create(ctx context.Context, name string, priceKES int64, speedMbps, durationHours int, description string, popular bool) (*model.WifiPackage, error) {
	pkg, err := model.NewWifiPackage(uuid.NewString(), name, priceKES, speedMbps, durationHours, description, popular)
	if err != nil {
		return nil, err
	}
	if err := uc.packages.Save(ctx, repository.NoTX, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (uc *catalogUC) Update(ctx context.Context, pkg *model.WifiPackage) error {
	if pkg == nil || pkg.ID == "" {
		return domain.ErrInvalidArgument
	}
	if pkg.Name == "" || pkg.PriceKES <= 0 || pkg.SpeedMbps <= 0 || pkg.DurationHours <= 0 {
		return domain.ErrInvalidArgument
	}
	if _, err := uc.packages.FindByID(ctx, repository.NoTX, pkg.ID); err != nil {
		return err
	}
	return uc.packages.Save(ctx, repository.NoTX, pkg)
}

func (uc *catalogUC) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidArgument
	}
	return uc.packages.Delete(ctx, repository.NoTX, id)
}

func (uc *catalogUC) Get(ctx context.Context, id string) (*model.WifiPackage, error) {
	return uc.packages.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) List(ctx context.Context) ([]*model.WifiPackage, error) {
	return uc.packages.ListAll(ctx, repository.NoTX)
}
