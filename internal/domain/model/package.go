package model

import (
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
)

// WifiPackage represents a purchasable internet offering with a fixed
// bandwidth, duration, and price in KES.
type WifiPackage struct {
	ID            string
	Name          string
	PriceKES      int64
	SpeedMbps     int
	DurationHours int
	Description   string
	Popular       bool
	CreatedAt     time.Time
}

func (p *WifiPackage) IsZero() bool { return p == nil || p.ID == "" }

// DurationDays derives the day granularity from the canonical hour value.
// Hours are the single stored unit; days are never persisted.
func (p *WifiPackage) DurationDays() int {
	d := (p.DurationHours + 23) / 24
	if d < 1 {
		d = 1
	}
	return d
}

// NewWifiPackage validates and constructs a package.
func NewWifiPackage(id, name string, priceKES int64, speedMbps, durationHours int, description string, popular bool) (*WifiPackage, error) {
	if name == "" || priceKES <= 0 || speedMbps <= 0 || durationHours <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &WifiPackage{
		ID:            id,
		Name:          name,
		PriceKES:      priceKES,
		SpeedMbps:     speedMbps,
		DurationHours: durationHours,
		Description:   description,
		Popular:       popular,
		CreatedAt:     time.Now(),
	}, nil
}
