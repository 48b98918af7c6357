package model

import "time"

// Session is a customer's connectivity window tied to one redeemed
// activation code. Sessions are ephemeral: they live only in the memory of
// the monitor instance that created them and are never persisted.
type Session struct {
	ID               string
	CustomerPhone    string
	PackageLabel     string
	RemainingMinutes int
	Online           bool
	ActivatedAt      time.Time
	AmountPaidKES    int64

	// LastTickAt is the minute boundary the session was last accounted to.
	// It keeps Tick idempotent inside a single wall-clock minute.
	LastTickAt time.Time
}

// Expired reports whether the session has run out of time.
func (s *Session) Expired() bool { return s.RemainingMinutes <= 0 }

// Disconnect forces the session offline. Calling it on an offline session
// is a no-op; offline is terminal.
func (s *Session) Disconnect() {
	if !s.Online {
		return
	}
	s.Online = false
	s.RemainingMinutes = 0
}
