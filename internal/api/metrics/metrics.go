// Package metrics defines the Prometheus metrics of the accounts API. Metric
// names, labels and help strings live here and nowhere else.
//
// All metrics register with the default registry on package init via promauto.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/soundwave/accounts-api/internal/core/domain"
)

const namespace = "accounts"

// Outcome label values.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

// ── Account operations ────────────────────────────────────────────────────────

// RegistrationsTotal counts register attempts.
// Label:
//   - outcome: success, invalid, conflict or error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts. Repeated unauthorized outcomes for one
// email are not acted upon; the counter is for observation only.
// Label:
//   - outcome: success, invalid, not_found, unauthorized or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// EmailChecksTotal counts check-email probes.
// Label:
//   - outcome: success (found), not_found, invalid or error
var EmailChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_checks_total",
		Help:      "Total number of check-email probes, by outcome.",
	},
	[]string{"outcome"},
)

// PasswordResetsTotal counts reset-password attempts.
// Label:
//   - outcome: success, invalid, not_found or error
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Hashing ───────────────────────────────────────────────────────────────────

// PasswordHashDuration measures bcrypt work.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify calls.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// Outcome maps a service error to an outcome label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return OutcomeUnauthorized
	default:
		return OutcomeError
	}
}
