package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

type ledgerFixture struct {
	codes     *memCodeRepo
	customers *memCustomerRepo
	packages  *memPackageRepo
	notifLog  *memNotifLogRepo
	notifier  *captureNotifier
	uc        *ledgerUC
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		customers: newMemCustomerRepo(),
		packages:  newMemPackageRepo(),
		notifLog:  newMemNotifLogRepo(),
		notifier:  &captureNotifier{},
	}
	f.codes = newMemCodeRepo(f.customers, f.packages)
	logger := zerolog.Nop()
	clk := clock.NewFake(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC))
	f.uc = NewLedgerUseCase(f.codes, f.customers, f.packages, f.notifLog, f.notifier, clk, &logger)
	return f
}

func (f *ledgerFixture) seed(t *testing.T, ctx context.Context, codeDigits, phone, pkgID, pkgName string, price int64) *model.ActivationCode {
	t.Helper()
	if _, err := f.packages.FindByID(ctx, repository.NoTX, pkgID); err != nil {
		pkg, err := model.NewWifiPackage(pkgID, pkgName, price, 10, 8, "", false)
		if err != nil {
			t.Fatalf("seed package: %v", err)
		}
		if err := f.packages.Save(ctx, repository.NoTX, pkg); err != nil {
			t.Fatalf("seed package: %v", err)
		}
	}
	cust, err := f.customers.FindByPhone(ctx, repository.NoTX, phone)
	if err != nil {
		cust, err = model.NewCustomer("cust-"+phone, "", phone)
		if err != nil {
			t.Fatalf("seed customer: %v", err)
		}
		if err := f.customers.Save(ctx, repository.NoTX, cust); err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	code := &model.ActivationCode{
		ID:         "code-" + codeDigits,
		Code:       codeDigits,
		CustomerID: cust.ID,
		PackageID:  pkgID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(72 * time.Hour),
	}
	if err := f.codes.Save(ctx, repository.NoTX, code); err != nil {
		t.Fatalf("seed code: %v", err)
	}
	return code
}

func TestLedger_ListFilter(t *testing.T) {
	t.Parallel()
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.seed(t, ctx, "789123", "0796286263", "pkg-prem", "Premium", 50)
	f.seed(t, ctx, "456789", "0712345678", "pkg-basic", "Basic Starter", 20)
	f.seed(t, ctx, "123456", "0798765432", "pkg-prem", "Premium", 50)

	all, err := f.uc.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}

	// Case-insensitive match on package name.
	prem, err := f.uc.List(ctx, "premium")
	if err != nil {
		t.Fatalf("List(premium): %v", err)
	}
	if len(prem) != 2 {
		t.Fatalf("List(premium) returned %d entries, want 2", len(prem))
	}
	for _, e := range prem {
		if e.PackageName != "Premium" {
			t.Errorf("non-Premium entry in filtered result: %+v", e)
		}
	}

	// Substring on the code digits.
	byCode, err := f.uc.List(ctx, "4567")
	if err != nil {
		t.Fatalf("List(4567): %v", err)
	}
	if len(byCode) != 1 || byCode[0].Code.Code != "456789" {
		t.Fatalf("List(4567): %+v", byCode)
	}

	// Substring on phone.
	byPhone, err := f.uc.List(ctx, "0798")
	if err != nil {
		t.Fatalf("List(0798): %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].PhoneNumber != "0798765432" {
		t.Fatalf("List(0798): %+v", byPhone)
	}
}

func TestLedger_NotifyAtMostOnce(t *testing.T) {
	t.Parallel()
	f := newLedgerFixture(t)
	ctx := context.Background()

	code := f.seed(t, ctx, "789123", "0796286263", "pkg-prem", "Premium", 50)

	if err := f.uc.Notify(ctx, code.ID); err != nil {
		t.Fatalf("first Notify: %v", err)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected 1 send, got %d", f.notifier.count())
	}
	if !strings.Contains(f.notifier.bodies[0], "789123") || !strings.Contains(f.notifier.bodies[0], "Premium") {
		t.Errorf("notification body missing details: %q", f.notifier.bodies[0])
	}

	if err := f.uc.Notify(ctx, code.ID); err != domain.ErrAlreadyNotified {
		t.Fatalf("second Notify: got %v, want ErrAlreadyNotified", err)
	}
	if f.notifier.count() != 1 {
		t.Errorf("second Notify sent again: %d sends", f.notifier.count())
	}
}

func TestLedger_NotifyDeletedPackage(t *testing.T) {
	t.Parallel()
	f := newLedgerFixture(t)
	ctx := context.Background()

	code := f.seed(t, ctx, "654321", "0796286263", "pkg-gone", "Night Owl", 30)
	if err := f.packages.Delete(ctx, repository.NoTX, "pkg-gone"); err != nil {
		t.Fatalf("delete package: %v", err)
	}

	// Notification still goes out, with the deleted-package fallback.
	if err := f.uc.Notify(ctx, code.ID); err != nil {
		t.Fatalf("Notify after package delete: %v", err)
	}
	if !strings.Contains(f.notifier.bodies[0], "(deleted)") {
		t.Errorf("expected deleted-package label in body: %q", f.notifier.bodies[0])
	}
}
