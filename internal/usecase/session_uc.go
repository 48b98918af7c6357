package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

// Compile-time check
var _ SessionMonitorUseCase = (*sessionMonitor)(nil)

// SessionMonitorUseCase tracks live connectivity windows. Sessions belong
// exclusively to this instance: they are held in memory and never shared
// or persisted.
type SessionMonitorUseCase interface {
	// Register starts an online session with the given time budget and
	// returns a snapshot of it.
	Register(customerPhone, packageLabel string, durationMinutes int, amountPaidKES int64) model.Session
	// Tick accounts elapsed whole minutes to every online session and
	// expires the ones that reach zero, returning how many expired.
	// Accounting is batched to minute boundaries, so calling Tick twice
	// within the same minute never double-decrements.
	Tick(ctx context.Context) int
	// ForceDisconnect takes a session offline with zero minutes left. On
	// an already-offline session it is an idempotent no-op.
	ForceDisconnect(id string) error
	// Search filters sessions by case-insensitive substring over phone
	// number and package label.
	Search(filter string) []model.Session
	List() []model.Session
}

type sessionMonitor struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	clk      clock.Clock
	notifier adapter.OpsNotifier
	log      *zerolog.Logger
}

func NewSessionMonitor(clk clock.Clock, notifier adapter.OpsNotifier, logger *zerolog.Logger) *sessionMonitor {
	l := logger.With().Str("component", "SessionMonitor").Logger()
	return &sessionMonitor{
		sessions: make(map[string]*model.Session),
		clk:      clk,
		notifier: notifier,
		log:      &l,
	}
}

func (m *sessionMonitor) Register(customerPhone, packageLabel string, durationMinutes int, amountPaidKES int64) model.Session {
	now := m.clk.Now()
	s := &model.Session{
		ID:               ulid.Make().String(),
		CustomerPhone:    customerPhone,
		PackageLabel:     packageLabel,
		RemainingMinutes: durationMinutes,
		Online:           durationMinutes > 0,
		ActivatedAt:      now,
		AmountPaidKES:    amountPaidKES,
		LastTickAt:       now.Truncate(time.Minute),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info().
		Str("session_id", s.ID).
		Str("phone", customerPhone).
		Int("minutes", durationMinutes).
		Msg("session registered")
	return *s
}

func (m *sessionMonitor) Tick(ctx context.Context) int {
	boundary := m.clk.Now().Truncate(time.Minute)

	m.mu.Lock()
	var expired []model.Session
	for _, s := range m.sessions {
		if !s.Online {
			continue
		}
		elapsed := int(boundary.Sub(s.LastTickAt) / time.Minute)
		if elapsed <= 0 {
			continue // same minute, nothing to account
		}
		s.LastTickAt = boundary
		s.RemainingMinutes -= elapsed
		if s.RemainingMinutes <= 0 {
			s.RemainingMinutes = 0
			s.Online = false
			expired = append(expired, *s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.log.Info().Str("session_id", s.ID).Str("phone", s.CustomerPhone).Msg("session expired")
		body := "Session expired for " + s.CustomerPhone + " (" + s.PackageLabel + ")."
		if err := m.notifier.Send(ctx, "WiFi session expired", body); err != nil {
			m.log.Error().Err(err).Str("session_id", s.ID).Msg("expiry notification failed")
		}
	}
	return len(expired)
}

func (m *sessionMonitor) ForceDisconnect(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !s.Online {
		return nil
	}
	s.Disconnect()
	m.log.Info().Str("session_id", id).Str("phone", s.CustomerPhone).Msg("session force-disconnected")
	return nil
}

func (m *sessionMonitor) Search(filter string) []model.Session {
	needle := strings.ToLower(filter)

	m.mu.RLock()
	out := make([]model.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.CustomerPhone), needle) &&
			!strings.Contains(strings.ToLower(s.PackageLabel), needle) {
			continue
		}
		out = append(out, *s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.After(out[j].ActivatedAt) })
	return out
}

func (m *sessionMonitor) List() []model.Session { return m.Search("") }

// CountOnline is used by the stats screen.
func (m *sessionMonitor) CountOnline() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.sessions {
		if s.Online {
			n++
		}
	}
	return n
}
