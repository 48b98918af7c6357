package adapter

import "context"

// PaymentGateway abstracts the payment provider. RequestPayment registers
// an intent and returns the provider reference the confirmation callback
// will carry, plus a URL the customer completes payment at.
type PaymentGateway interface {
	Name() string
	RequestPayment(ctx context.Context, amountKES int64, description, callbackURL string) (reference string, payURL string, err error)
}
