package model

import (
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

// Purchase is the asynchronous payment boundary between the storefront and
// the activation ledger. It is created in pending state when the customer
// submits a phone number, and settles to confirmed (with an issued code) or
// failed once the gateway reports back.
type Purchase struct {
	ID               string
	Reference        string // gateway authority, ULID
	CustomerID       string
	PackageID        string
	AmountKES        int64
	Status           PurchaseStatus
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
	ActivationCodeID *string // set once confirmed
}

// NewPurchase constructs a pending purchase.
func NewPurchase(id, reference, customerID, packageID string, amountKES int64) (*Purchase, error) {
	if id == "" || reference == "" || customerID == "" || packageID == "" || amountKES <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Purchase{
		ID:         id,
		Reference:  reference,
		CustomerID: customerID,
		PackageID:  packageID,
		AmountKES:  amountKES,
		Status:     PurchaseStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}
