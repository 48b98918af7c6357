//go:build !integration

package web

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// --- Mock Use Cases ---

type mockCatalogUC struct {
	mu   sync.Mutex
	pkgs map[string]*model.WifiPackage
	seq  int
}

func newMockCatalogUC() *mockCatalogUC {
	return &mockCatalogUC{pkgs: map[string]*model.WifiPackage{}}
}

func (m *mockCatalogUC) Create(ctx context.Context, name string, priceKES int64, speedMbps, durationHours int, description string, popular bool) (*model.WifiPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	pkg, err := model.NewWifiPackage(fmt.Sprintf("pkg-%d", m.seq), name, priceKES, speedMbps, durationHours, description, popular)
	if err != nil {
		return nil, err
	}
	m.pkgs[pkg.ID] = pkg
	return pkg, nil
}

func (m *mockCatalogUC) Update(ctx context.Context, pkg *model.WifiPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pkgs[pkg.ID]; !ok {
		return domain.ErrNotFound
	}
	m.pkgs[pkg.ID] = pkg
	return nil
}

func (m *mockCatalogUC) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pkgs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.pkgs, id)
	return nil
}

func (m *mockCatalogUC) Get(ctx context.Context, id string) (*model.WifiPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pkgs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogUC) List(ctx context.Context) ([]*model.WifiPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.WifiPackage, 0, len(m.pkgs))
	for _, p := range m.pkgs {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type mockPurchaseUC struct {
	mu        sync.Mutex
	catalog   *mockCatalogUC
	purchases map[string]*model.Purchase // by ID
	byRef     map[string]*model.Purchase
	codes     map[string]*model.ActivationCode // by code ID
	seq       int
}

func newMockPurchaseUC(catalog *mockCatalogUC) *mockPurchaseUC {
	return &mockPurchaseUC{
		catalog:   catalog,
		purchases: map[string]*model.Purchase{},
		byRef:     map[string]*model.Purchase{},
		codes:     map[string]*model.ActivationCode{},
	}
}

func (m *mockPurchaseUC) Initiate(ctx context.Context, packageID, phoneNumber string) (*model.Purchase, string, error) {
	if !model.ValidPhoneNumber(phoneNumber) {
		return nil, "", domain.ErrInvalidPhoneNumber
	}
	pkg, err := m.catalog.Get(ctx, packageID)
	if err != nil {
		return nil, "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ref := fmt.Sprintf("REF-%04d", m.seq)
	p, err := model.NewPurchase(fmt.Sprintf("pur-%d", m.seq), ref, "cust-1", pkg.ID, pkg.PriceKES)
	if err != nil {
		return nil, "", err
	}
	p.CreatedAt = time.Now()
	m.purchases[p.ID] = p
	m.byRef[p.Reference] = p
	return p, "https://pay.example/" + ref, nil
}

func (m *mockPurchaseUC) ConfirmByReference(ctx context.Context, reference string, ok bool) (*model.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, found := m.byRef[reference]
	if !found {
		return nil, domain.ErrNotFound
	}
	if p.Status != model.PurchaseStatusPending {
		cp := *p
		return &cp, nil
	}
	now := time.Now()
	if ok {
		p.Status = model.PurchaseStatusConfirmed
		p.ConfirmedAt = &now
		codeID := "code-" + p.ID
		m.codes[codeID] = &model.ActivationCode{
			ID: codeID, Code: "483920", CustomerID: p.CustomerID,
			PackageID: p.PackageID, IssuedAt: now, ExpiresAt: now.Add(72 * time.Hour),
		}
		p.ActivationCodeID = &codeID
	} else {
		p.Status = model.PurchaseStatusFailed
	}
	cp := *p
	return &cp, nil
}

func (m *mockPurchaseUC) Get(ctx context.Context, id string) (*model.Purchase, *model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, found := m.purchases[id]
	if !found {
		return nil, nil, domain.ErrNotFound
	}
	cp := *p
	if p.ActivationCodeID != nil {
		if c, ok := m.codes[*p.ActivationCodeID]; ok {
			cc := *c
			return &cp, &cc, nil
		}
	}
	return &cp, nil, nil
}

func (m *mockPurchaseUC) FailStale(ctx context.Context, maxAge time.Duration) (int, error) {
	return 0, nil
}

type mockActivationUC struct {
	RedeemFunc func(ctx context.Context, codeDigits, phoneNumber string) (model.Session, error)
}

func (m *mockActivationUC) Redeem(ctx context.Context, codeDigits, phoneNumber string) (model.Session, error) {
	return m.RedeemFunc(ctx, codeDigits, phoneNumber)
}

type mockLedgerUC struct {
	mu       sync.Mutex
	entries  []*repository.LedgerEntry
	notified map[string]bool
}

func newMockLedgerUC(entries ...*repository.LedgerEntry) *mockLedgerUC {
	return &mockLedgerUC{entries: entries, notified: map[string]bool{}}
}

func (m *mockLedgerUC) List(ctx context.Context, filter string) ([]*repository.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if filter == "" {
		return m.entries, nil
	}
	out := []*repository.LedgerEntry{}
	for _, e := range m.entries {
		if strings.Contains(e.Code.Code, filter) || strings.Contains(e.PhoneNumber, filter) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockLedgerUC) Notify(ctx context.Context, codeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, e := range m.entries {
		if e.Code.ID == codeID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrCodeNotFound
	}
	if m.notified[codeID] {
		return domain.ErrAlreadyNotified
	}
	m.notified[codeID] = true
	return nil
}

type mockAdminUC struct {
	username string
	password string
	role     string
}

func (m *mockAdminUC) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	if username != m.username {
		return nil, domain.ErrNotAllowListed
	}
	if password != m.password {
		return nil, domain.ErrBadCredentials
	}
	return &model.AdminUser{ID: "adm-1", Username: username, Role: m.role}, nil
}

func (m *mockAdminUC) SyncAllowList(ctx context.Context) error { return nil }

type mockStatsUC struct {
	totals usecase.Totals
	err    error
}

func (m *mockStatsUC) Totals(ctx context.Context) (usecase.Totals, error) {
	return m.totals, m.err
}

// mockLimiter trips after allow calls are exhausted.
type mockLimiter struct {
	mu      sync.Mutex
	allowed int
	calls   int
	err     error
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.calls++
	return m.calls <= m.allowed, nil
}
