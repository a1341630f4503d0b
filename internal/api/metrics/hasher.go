package metrics

import (
	"time"

	"github.com/soundwave/accounts-api/internal/core/ports"
)

type timedHasher struct {
	next ports.PasswordHasher
}

// TimedHasher wraps next and records PasswordHashDuration for every call.
func TimedHasher(next ports.PasswordHasher) ports.PasswordHasher {
	return &timedHasher{next: next}
}

func (h *timedHasher) Hash(password string) (string, error) {
	defer observe("hash", time.Now())
	return h.next.Hash(password)
}

func (h *timedHasher) Verify(password, hash string) (bool, error) {
	defer observe("verify", time.Now())
	return h.next.Verify(password, hash)
}

func observe(op string, start time.Time) {
	PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
