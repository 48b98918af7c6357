package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

// --- In-memory repositories used by unit tests ---

type memPackageRepo struct {
	mu    sync.RWMutex
	store map[string]*model.WifiPackage
}

func newMemPackageRepo() *memPackageRepo {
	return &memPackageRepo{store: make(map[string]*model.WifiPackage)}
}

func (m *memPackageRepo) Save(ctx context.Context, tx repository.Tx, pkg *model.WifiPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pkg
	m.store[pkg.ID] = &cp
	return nil
}

func (m *memPackageRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.WifiPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPackageRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.WifiPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.WifiPackage, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memCustomerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Customer // by ID
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{store: make(map[string]*model.Customer)}
}

func (m *memCustomerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.PhoneNumber == c.PhoneNumber {
			c.ID = existing.ID
			break
		}
	}
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCustomerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.PhoneNumber == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomerRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

type memCodeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ActivationCode // by ID, insertion-ordered via seq
	order []string

	customers *memCustomerRepo
	packages  *memPackageRepo

	// forceCollisions makes the next N inserts fail as collisions.
	forceCollisions int
}

func newMemCodeRepo(customers *memCustomerRepo, packages *memPackageRepo) *memCodeRepo {
	return &memCodeRepo{
		store:     make(map[string]*model.ActivationCode),
		customers: customers,
		packages:  packages,
	}
}

func (m *memCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[code.ID]; !exists {
		if m.forceCollisions > 0 {
			m.forceCollisions--
			return domain.ErrCodeCollision
		}
		for _, c := range m.store {
			if !c.Used && c.Code == code.Code {
				return domain.ErrCodeCollision
			}
		}
		m.order = append(m.order, code.ID)
	}
	cp := *code
	m.store[code.ID] = &cp
	return nil
}

func (m *memCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ActivationCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCodeRepo) FindUnusedByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Code == code && !c.Used {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCodeRepo) List(ctx context.Context, tx repository.Tx) ([]*repository.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*repository.LedgerEntry, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.store[m.order[i]]
		entry := &repository.LedgerEntry{Code: *c, PackageName: "(deleted)"}
		if cust, err := m.customers.FindByID(ctx, tx, c.CustomerID); err == nil {
			entry.PhoneNumber = cust.PhoneNumber
		}
		if pkg, err := m.packages.FindByID(ctx, tx, c.PackageID); err == nil {
			entry.PackageName = pkg.Name
			entry.PriceKES = pkg.PriceKES
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *memCodeRepo) CountIssued(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.store {
		if c.Used {
			n++
		}
	}
	return n, nil
}

type memPurchaseRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Purchase
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{store: make(map[string]*model.Purchase)}
}

func (m *memPurchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPurchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPurchaseRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPurchaseRepo) ListStalePending(ctx context.Context, tx repository.Tx, cutoff time.Time) ([]*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Purchase
	for _, p := range m.store {
		if p.Status == model.PurchaseStatusPending && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPurchaseRepo) SumConfirmed(ctx context.Context, tx repository.Tx, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.store {
		if p.Status != model.PurchaseStatusConfirmed {
			continue
		}
		if !since.IsZero() && p.CreatedAt.Before(since) {
			continue
		}
		sum += p.AmountKES
	}
	return sum, nil
}

type memAdminRepo struct {
	mu    sync.RWMutex
	store map[string]*model.AdminUser // by username
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{store: make(map[string]*model.AdminUser)}
}

func (m *memAdminRepo) Save(ctx context.Context, tx repository.Tx, u *model.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.Username] = &cp
	return nil
}

func (m *memAdminRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memAdminRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.AdminUser, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type memNotifLogRepo struct {
	mu    sync.Mutex
	store map[string]time.Time // codeID -> sentAt
}

func newMemNotifLogRepo() *memNotifLogRepo {
	return &memNotifLogRepo{store: make(map[string]time.Time)}
}

func (m *memNotifLogRepo) Save(ctx context.Context, tx repository.Tx, codeID string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[codeID]; ok {
		return domain.ErrAlreadyExists
	}
	m.store[codeID] = sentAt
	return nil
}

func (m *memNotifLogRepo) Exists(ctx context.Context, tx repository.Tx, codeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[codeID]
	return ok, nil
}

// --- Adapters ---

// fakeGateway hands out sequential references and remembers them.
type fakeGateway struct {
	mu   sync.Mutex
	seq  int
	refs []string
	err  error
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) RequestPayment(ctx context.Context, amountKES int64, description, callbackURL string) (string, string, error) {
	if g.err != nil {
		return "", "", g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	ref := fmt.Sprintf("REF-%04d", g.seq)
	g.refs = append(g.refs, ref)
	return ref, "https://pay.example/" + ref, nil
}

// captureNotifier records sends for assertions.
type captureNotifier struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
	err      error
}

func (n *captureNotifier) Send(ctx context.Context, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	n.bodies = append(n.bodies, body)
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subjects)
}

// passTxManager runs the callback outside any real transaction.
type passTxManager struct{}

func (passTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}
