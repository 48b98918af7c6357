package usecase

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// generateActivationCode draws a uniformly distributed 6-digit code in
// [100000, 999999]. Uniqueness against the ledger is the caller's job
// (insert, retry on collision).
func generateActivationCode() (string, error) {
	const span = 900000 // 999999 - 100000 + 1

	// Rejection sampling keeps the distribution uniform.
	bound := uint64(1<<64 - (1<<64)%span)
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", err
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v >= bound {
			continue
		}
		return strconv.Itoa(int(v%span) + 100000), nil
	}
}
