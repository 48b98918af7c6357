package payment

import (
	"context"
	"net/url"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*ManualGateway)(nil)

// ManualGateway issues a ULID reference per payment intent and points the
// customer at the hotspot's pay page. Settlement arrives out of band
// through the gateway callback endpoint, the same shape a real PSP
// (M-Pesa STK push and friends) would use.
type ManualGateway struct {
	payBaseURL string
	log        *zerolog.Logger
}

func NewManualGateway(payBaseURL string, logger *zerolog.Logger) (*ManualGateway, error) {
	if _, err := url.Parse(payBaseURL); err != nil {
		return nil, err
	}
	l := logger.With().Str("component", "ManualGateway").Logger()
	return &ManualGateway{payBaseURL: payBaseURL, log: &l}, nil
}

func (g *ManualGateway) Name() string { return "manual" }

func (g *ManualGateway) RequestPayment(ctx context.Context, amountKES int64, description, callbackURL string) (string, string, error) {
	reference := ulid.Make().String()
	g.log.Info().
		Str("reference", reference).
		Int64("amount_kes", amountKES).
		Str("description", description).
		Msg("payment intent registered")
	return reference, g.payBaseURL + "/pay/" + reference, nil
}
