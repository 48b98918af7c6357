package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

// PurchaseReconciler periodically fails pending purchases the gateway
// never reported back on. This covers lost callbacks and crashes
// mid-confirm; there is no fixed settlement timer anywhere else.
type PurchaseReconciler struct {
	uc         usecase.PurchaseUseCase
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending purchase must be to fail
	log        *zerolog.Logger
}

func NewPurchaseReconciler(uc usecase.PurchaseUseCase, interval, staleAfter time.Duration, logger *zerolog.Logger) *PurchaseReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	l := logger.With().Str("component", "PurchaseReconciler").Logger()
	return &PurchaseReconciler{uc: uc, interval: interval, staleAfter: staleAfter, log: &l}
}

func (w *PurchaseReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("stale_after", w.staleAfter).Msg("starting purchase reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping purchase reconciler")
			return ctx.Err()
		case <-t.C:
			n, err := w.uc.FailStale(ctx, w.staleAfter)
			if err != nil {
				w.log.Error().Err(err).Msg("reconcile error")
			}
			if n > 0 {
				for i := 0; i < n; i++ {
					metrics.IncPurchase("failed")
				}
				w.log.Info().Int("count", n).Msg("stale purchases failed")
			}
		}
	}
}
