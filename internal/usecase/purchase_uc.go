package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

// maxCodeAttempts bounds the collision-retry loop when issuing a code.
const maxCodeAttempts = 5

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// PurchaseUseCase drives the storefront flow:
//
//	SelectingPackage -> EnteringPhone -> Processing -> Complete
//
// Initiate covers the submit transition into Processing; the gateway
// confirmation callback covers Processing -> Complete. There is no fixed
// settlement timer: a purchase stays pending until the gateway reports
// back or the reconciler times it out.
type PurchaseUseCase interface {
	// Initiate validates the phone number and package, upserts the
	// customer, registers a payment intent, and persists a pending
	// purchase. It returns the purchase and the gateway payment URL.
	Initiate(ctx context.Context, packageID, phoneNumber string) (*model.Purchase, string, error)
	// ConfirmByReference settles the purchase the gateway reference points
	// at. ok=true issues an activation code; ok=false records the failure.
	// Confirming an already-settled purchase is idempotent and returns the
	// stored outcome.
	ConfirmByReference(ctx context.Context, reference string, ok bool) (*model.Purchase, error)
	// Get returns a purchase and, once confirmed, its activation code.
	Get(ctx context.Context, id string) (*model.Purchase, *model.ActivationCode, error)
	// FailStale times out pending purchases older than maxAge and returns
	// how many were failed.
	FailStale(ctx context.Context, maxAge time.Duration) (int, error)
}

type purchaseUC struct {
	packages     repository.WifiPackageRepository
	customers    repository.CustomerRepository
	codes        repository.ActivationCodeRepository
	purchases    repository.PurchaseRepository
	gateway      adapter.PaymentGateway
	txm          repository.TransactionManager
	clk          clock.Clock
	codeValidity time.Duration
	callbackURL  string
}

func NewPurchaseUseCase(
	packages repository.WifiPackageRepository,
	customers repository.CustomerRepository,
	codes repository.ActivationCodeRepository,
	purchases repository.PurchaseRepository,
	gateway adapter.PaymentGateway,
	txm repository.TransactionManager,
	clk clock.Clock,
	codeValidity time.Duration,
	callbackURL string,
) *purchaseUC {
	if codeValidity <= 0 {
		codeValidity = 72 * time.Hour
	}
	return &purchaseUC{
		packages:     packages,
		customers:    customers,
		codes:        codes,
		purchases:    purchases,
		gateway:      gateway,
		txm:          txm,
		clk:          clk,
		codeValidity: codeValidity,
		callbackURL:  callbackURL,
	}
}

func (uc *purchaseUC) Initiate(ctx context.Context, packageID, phoneNumber string) (*model.Purchase, string, error) {
	if packageID == "" {
		return nil, "", domain.ErrInvalidArgument
	}
	if !model.ValidPhoneNumber(phoneNumber) {
		return nil, "", domain.ErrInvalidPhoneNumber
	}

	pkg, err := uc.packages.FindByID(ctx, repository.NoTX, packageID)
	if err != nil {
		return nil, "", err
	}

	customer, err := uc.customers.FindByPhone(ctx, repository.NoTX, phoneNumber)
	if errors.Is(err, domain.ErrNotFound) {
		customer, err = model.NewCustomer(uuid.NewString(), "", phoneNumber)
		if err == nil {
			err = uc.customers.Save(ctx, repository.NoTX, customer)
		}
	}
	if err != nil {
		return nil, "", err
	}

	desc := fmt.Sprintf("%s (%d Mbps, %d hours) for %s", pkg.Name, pkg.SpeedMbps, pkg.DurationHours, phoneNumber)
	reference, payURL, err := uc.gateway.RequestPayment(ctx, pkg.PriceKES, desc, uc.callbackURL)
	if err != nil {
		return nil, "", err
	}

	purchase, err := model.NewPurchase(uuid.NewString(), reference, customer.ID, pkg.ID, pkg.PriceKES)
	if err != nil {
		return nil, "", err
	}
	purchase.CreatedAt = uc.clk.Now()
	if err := uc.purchases.Save(ctx, repository.NoTX, purchase); err != nil {
		return nil, "", err
	}
	return purchase, payURL, nil
}

func (uc *purchaseUC) ConfirmByReference(ctx context.Context, reference string, ok bool) (*model.Purchase, error) {
	var settled *model.Purchase
	err := uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		purchase, err := uc.purchases.FindByReference(ctx, tx, reference)
		if err != nil {
			return err
		}
		// Idempotent: a settled purchase is returned as stored, so the
		// gateway can safely retry its callback.
		if purchase.Status != model.PurchaseStatusPending {
			settled = purchase
			return nil
		}

		if !ok {
			purchase.Status = model.PurchaseStatusFailed
			if err := uc.purchases.Save(ctx, tx, purchase); err != nil {
				return err
			}
			settled = purchase
			return nil
		}

		code, err := uc.issueCode(ctx, tx, purchase)
		if err != nil {
			return err
		}
		now := uc.clk.Now()
		purchase.Status = model.PurchaseStatusConfirmed
		purchase.ConfirmedAt = &now
		purchase.ActivationCodeID = &code.ID
		if err := uc.purchases.Save(ctx, tx, purchase); err != nil {
			return err
		}
		settled = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// issueCode generates a ledger entry, retrying on the (rare) collision
// with an existing unused code.
func (uc *purchaseUC) issueCode(ctx context.Context, tx repository.Tx, purchase *model.Purchase) (*model.ActivationCode, error) {
	now := uc.clk.Now()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		digits, err := generateActivationCode()
		if err != nil {
			return nil, err
		}
		code := &model.ActivationCode{
			ID:         uuid.NewString(),
			Code:       digits,
			CustomerID: purchase.CustomerID,
			PackageID:  purchase.PackageID,
			IssuedAt:   now,
			ExpiresAt:  now.Add(uc.codeValidity),
		}
		err = uc.codes.Save(ctx, tx, code)
		if errors.Is(err, domain.ErrCodeCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return code, nil
	}
	return nil, domain.ErrCodeCollision
}

func (uc *purchaseUC) Get(ctx context.Context, id string) (*model.Purchase, *model.ActivationCode, error) {
	purchase, err := uc.purchases.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, nil, err
	}
	if purchase.ActivationCodeID == nil {
		return purchase, nil, nil
	}
	code, err := uc.codes.FindByID(ctx, repository.NoTX, *purchase.ActivationCodeID)
	if err != nil {
		return nil, nil, err
	}
	return purchase, code, nil
}

func (uc *purchaseUC) FailStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := uc.clk.Now().Add(-maxAge)
	stale, err := uc.purchases.ListStalePending(ctx, repository.NoTX, cutoff)
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, p := range stale {
		p.Status = model.PurchaseStatusFailed
		if err := uc.purchases.Save(ctx, repository.NoTX, p); err != nil {
			return failed, err
		}
		failed++
	}
	return failed, nil
}
