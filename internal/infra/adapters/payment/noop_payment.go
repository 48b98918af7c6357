package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway to use in tests.
type NoopPaymentGateway struct {
	mu      sync.Mutex
	seq     int64
	intents map[string]int64 // reference -> expected amount (KES)
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		intents: make(map[string]int64),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) RequestPayment(ctx context.Context, amountKES int64, description, callbackURL string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	reference := g.next()
	g.intents[reference] = amountKES
	return reference, "https://example.test/pay/" + reference, nil
}
