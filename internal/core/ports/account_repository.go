package ports

import (
	"context"

	"github.com/soundwave/accounts-api/internal/core/domain"
)

// AccountRepository is the credential store. It is the only component that
// reads or writes account rows.
type AccountRepository interface {
	// FindByEmail performs an exact, case-sensitive lookup. It returns
	// domain.ErrAccountNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Insert creates an account and returns its store-assigned id. A unique
	// violation on email is reported as domain.ErrEmailTaken.
	Insert(ctx context.Context, name, email, phone, passwordHash string) (int64, error)
	// UpdatePasswordByEmail replaces the stored hash. Zero rows affected means
	// no such account.
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error)
	Ping(ctx context.Context) error
}
