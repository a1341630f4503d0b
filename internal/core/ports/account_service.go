package ports

import (
	"context"

	"github.com/soundwave/accounts-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to Register.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// AccountService implements the register, login, check-email and
// reset-password protocols. Errors are *domain.Error values.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (*domain.Account, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}
