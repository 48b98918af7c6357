package model

import (
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
)

// ActivationCode is a single-use 6-digit credential tied to one customer
// and one package. Rows are append-only: a code is created at purchase
// confirmation and mutated exactly once, when it is redeemed.
type ActivationCode struct {
	ID         string
	Code       string // 6 ASCII digits in [100000, 999999]
	CustomerID string
	PackageID  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Used       bool
	UsedAt     *time.Time // set only on the false->true transition
}

// MarkUsed performs the monotonic used transition at redemption time.
// A used code never reverts; redeeming twice is an error.
func (c *ActivationCode) MarkUsed(now time.Time) error {
	if c.Used {
		return domain.ErrCodeAlreadyUsed
	}
	if now.After(c.ExpiresAt) {
		return domain.ErrCodeExpired
	}
	c.Used = true
	c.UsedAt = &now
	return nil
}
