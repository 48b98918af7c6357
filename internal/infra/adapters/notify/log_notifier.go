package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
)

var _ adapter.OpsNotifier = (*LogNotifier)(nil)

// LogNotifier writes ops notifications to the structured log. Deployments
// without an SMTP relay still get the full notification body in their log
// pipeline, and the at-most-once dispatch bookkeeping stays exercised.
type LogNotifier struct {
	address string
	log     *zerolog.Logger
}

func NewLogNotifier(address string, logger *zerolog.Logger) *LogNotifier {
	l := logger.With().Str("component", "LogNotifier").Logger()
	return &LogNotifier{address: address, log: &l}
}

func (n *LogNotifier) Send(ctx context.Context, subject, body string) error {
	n.log.Info().
		Str("to", n.address).
		Str("subject", subject).
		Str("body", body).
		Msg("ops notification")
	return nil
}
