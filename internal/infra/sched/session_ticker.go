package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

type sessionCounter interface {
	CountOnline() int
}

// SessionTicker drives the session monitor's minute accounting. Tick is
// batched to minute boundaries internally, so a slightly drifting ticker
// never double-counts.
type SessionTicker struct {
	interval time.Duration
	monitor  usecase.SessionMonitorUseCase
	counter  sessionCounter
	log      *zerolog.Logger
}

func NewSessionTicker(interval time.Duration, monitor usecase.SessionMonitorUseCase, counter sessionCounter, logger *zerolog.Logger) *SessionTicker {
	if interval <= 0 {
		interval = time.Minute
	}
	l := logger.With().Str("component", "SessionTicker").Logger()
	return &SessionTicker{interval: interval, monitor: monitor, counter: counter, log: &l}
}

func (w *SessionTicker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting session ticker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping session ticker")
			return ctx.Err()
		case <-ticker.C:
			expired := w.monitor.Tick(ctx)
			if expired > 0 {
				metrics.AddSessionsExpired(expired)
				w.log.Info().Int("count", expired).Msg("sessions expired")
			}
			if w.counter != nil {
				metrics.SetSessionsOnline(w.counter.CountOnline())
			}
		}
	}
}
