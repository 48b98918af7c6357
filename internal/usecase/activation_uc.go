package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase redeems an activation code when the customer connects,
// turning the ledger row into a live session on the monitor.
type ActivationUseCase interface {
	// Redeem marks the code used (monotonic; a used code stays used) and
	// registers a session with the full package time budget. The phone
	// number must match the one the code was sold to.
	Redeem(ctx context.Context, codeDigits, phoneNumber string) (model.Session, error)
}

type activationUC struct {
	codes     repository.ActivationCodeRepository
	customers repository.CustomerRepository
	packages  repository.WifiPackageRepository
	monitor   SessionMonitorUseCase
	txm       repository.TransactionManager
	clk       clock.Clock
}

func NewActivationUseCase(
	codes repository.ActivationCodeRepository,
	customers repository.CustomerRepository,
	packages repository.WifiPackageRepository,
	monitor SessionMonitorUseCase,
	txm repository.TransactionManager,
	clk clock.Clock,
) *activationUC {
	return &activationUC{
		codes:     codes,
		customers: customers,
		packages:  packages,
		monitor:   monitor,
		txm:       txm,
		clk:       clk,
	}
}

func (uc *activationUC) Redeem(ctx context.Context, codeDigits, phoneNumber string) (model.Session, error) {
	if !model.ValidPhoneNumber(phoneNumber) {
		return model.Session{}, domain.ErrInvalidPhoneNumber
	}

	var (
		code     *model.ActivationCode
		customer *model.Customer
		pkg      *model.WifiPackage
	)
	err := uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		code, err = uc.codes.FindUnusedByCode(ctx, tx, codeDigits)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return err
		}

		customer, err = uc.customers.FindByID(ctx, tx, code.CustomerID)
		if err != nil {
			return err
		}
		if customer.PhoneNumber != phoneNumber {
			return domain.ErrCodeNotFound
		}

		pkg, err = uc.packages.FindByID(ctx, tx, code.PackageID)
		if err != nil {
			return err
		}

		if err := code.MarkUsed(uc.clk.Now()); err != nil {
			return err
		}
		return uc.codes.Save(ctx, tx, code)
	})
	if err != nil {
		return model.Session{}, err
	}

	label := fmt.Sprintf("%s %dhrs - %dMbps", pkg.Name, pkg.DurationHours, pkg.SpeedMbps)
	session := uc.monitor.Register(customer.PhoneNumber, label, pkg.DurationHours*60, pkg.PriceKES)
	return session, nil
}
