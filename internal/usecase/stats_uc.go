package usecase

import (
	"context"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Totals is the dashboard summary: counts from the store plus the live
// session count from this instance's monitor.
type Totals struct {
	Customers       int   `json:"customers"`
	CodesIssued     int   `json:"codes_issued"`
	CodesUsed       int   `json:"codes_used"`
	ActiveSessions  int   `json:"active_sessions"`
	RevenueTodayKES int64 `json:"revenue_today_kes"`
	RevenueTotalKES int64 `json:"revenue_total_kes"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (Totals, error)
}

type sessionCounter interface {
	CountOnline() int
}

type statsUC struct {
	customers repository.CustomerRepository
	codes     repository.ActivationCodeRepository
	purchases repository.PurchaseRepository
	sessions  sessionCounter
	clk       clock.Clock
}

func NewStatsUseCase(
	customers repository.CustomerRepository,
	codes repository.ActivationCodeRepository,
	purchases repository.PurchaseRepository,
	sessions sessionCounter,
	clk clock.Clock,
) *statsUC {
	return &statsUC{customers: customers, codes: codes, purchases: purchases, sessions: sessions, clk: clk}
}

func (uc *statsUC) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	var err error

	if t.Customers, err = uc.customers.Count(ctx, repository.NoTX); err != nil {
		return t, err
	}
	if t.CodesIssued, err = uc.codes.CountIssued(ctx, repository.NoTX); err != nil {
		return t, err
	}
	if t.CodesUsed, err = uc.codes.CountUsed(ctx, repository.NoTX); err != nil {
		return t, err
	}

	now := uc.clk.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if t.RevenueTodayKES, err = uc.purchases.SumConfirmed(ctx, repository.NoTX, midnight); err != nil {
		return t, err
	}
	if t.RevenueTotalKES, err = uc.purchases.SumConfirmed(ctx, repository.NoTX, time.Time{}); err != nil {
		return t, err
	}

	t.ActiveSessions = uc.sessions.CountOnline()
	return t, nil
}
