package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

// Compile-time check
var _ LedgerUseCase = (*ledgerUC)(nil)

// LedgerUseCase serves the admin activation-code console.
type LedgerUseCase interface {
	// List returns ledger entries matching filter: case-insensitive
	// substring over phone number and package name, substring over the
	// code digits.
	List(ctx context.Context, filter string) ([]*repository.LedgerEntry, error)
	// Notify dispatches the code's details to the ops mailbox, at most
	// once per code ever. A second call returns domain.ErrAlreadyNotified.
	Notify(ctx context.Context, codeID string) error
}

type ledgerUC struct {
	codes     repository.ActivationCodeRepository
	customers repository.CustomerRepository
	packages  repository.WifiPackageRepository
	notifLog  repository.CodeNotificationRepository
	notifier  adapter.OpsNotifier
	clk       clock.Clock
	log       *zerolog.Logger
}

func NewLedgerUseCase(
	codes repository.ActivationCodeRepository,
	customers repository.CustomerRepository,
	packages repository.WifiPackageRepository,
	notifLog repository.CodeNotificationRepository,
	notifier adapter.OpsNotifier,
	clk clock.Clock,
	logger *zerolog.Logger,
) *ledgerUC {
	l := logger.With().Str("component", "LedgerUseCase").Logger()
	return &ledgerUC{
		codes:     codes,
		customers: customers,
		packages:  packages,
		notifLog:  notifLog,
		notifier:  notifier,
		clk:       clk,
		log:       &l,
	}
}

func (uc *ledgerUC) List(ctx context.Context, filter string) ([]*repository.LedgerEntry, error) {
	entries, err := uc.codes.List(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return entries, nil
	}
	needle := strings.ToLower(filter)
	out := entries[:0:0]
	for _, e := range entries {
		if strings.Contains(e.Code.Code, filter) ||
			strings.Contains(strings.ToLower(e.PhoneNumber), needle) ||
			strings.Contains(strings.ToLower(e.PackageName), needle) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (uc *ledgerUC) Notify(ctx context.Context, codeID string) error {
	sent, err := uc.notifLog.Exists(ctx, repository.NoTX, codeID)
	if err != nil {
		return err
	}
	if sent {
		return domain.ErrAlreadyNotified
	}

	code, err := uc.codes.FindByID(ctx, repository.NoTX, codeID)
	if err != nil {
		return err
	}
	subject, body, err := uc.composeNotification(ctx, code)
	if err != nil {
		return err
	}

	// Record first: the unique constraint on code_id is what makes two
	// racing dispatches collapse to one. A send failure therefore burns
	// the slot rather than risking a duplicate mail later.
	if err := uc.notifLog.Save(ctx, repository.NoTX, codeID, uc.clk.Now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.ErrAlreadyNotified
		}
		return err
	}
	if err := uc.notifier.Send(ctx, subject, body); err != nil {
		uc.log.Error().Err(err).Str("code_id", codeID).Msg("ops notification send failed")
		return err
	}
	uc.log.Info().Str("code_id", codeID).Msg("ops notification sent")
	return nil
}

func (uc *ledgerUC) composeNotification(ctx context.Context, code *model.ActivationCode) (string, string, error) {
	customer, err := uc.customers.FindByID(ctx, repository.NoTX, code.CustomerID)
	if err != nil {
		return "", "", err
	}

	pkgName := "(deleted)"
	var price int64
	if pkg, err := uc.packages.FindByID(ctx, repository.NoTX, code.PackageID); err == nil {
		pkgName = pkg.Name
		price = pkg.PriceKES
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", "", err
	}

	subject := "New WiFi Package Purchase"
	body := fmt.Sprintf(
		"Customer Details:\n"+
			"- Phone Number: %s\n"+
			"- Package: %s\n"+
			"- Price: KShs %d\n"+
			"- Activation Code: %s\n"+
			"- Purchase Time: %s\n\n"+
			"The customer has been sent their activation code.\n",
		customer.PhoneNumber, pkgName, price, code.Code, code.IssuedAt.Format("2006-01-02 15:04"),
	)
	return subject, body, nil
}
