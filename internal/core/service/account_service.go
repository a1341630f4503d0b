package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/soundwave/accounts-api/internal/core/domain"
	"github.com/soundwave/accounts-api/internal/core/ports"
)

// AccountService implements the credential protocols on top of an
// AccountRepository and a PasswordHasher. It holds no per-request state.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, logger: logger}
}

// Register creates an account after checking the email is free.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return 0, domain.Invalid(domain.MsgAllFieldsRequired)
	}

	// Writes must not be abandoned halfway when the caller goes away.
	ctx = context.WithoutCancel(ctx)

	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return 0, domain.Conflict(domain.MsgEmailRegistered)
	case !errors.Is(err, domain.ErrAccountNotFound):
		return 0, domain.Internal(domain.MsgServerError, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, domain.Internal(domain.MsgPasswordProcessing, err)
	}

	id, err := s.repo.Insert(ctx, in.Name, in.Email, in.Phone, hash)
	if err != nil {
		// Lost the race against a concurrent registration for the same email.
		if errors.Is(err, domain.ErrEmailTaken) {
			return 0, domain.Conflict(domain.MsgEmailRegistered)
		}
		return 0, domain.Internal(domain.MsgCreateFailed, err)
	}

	s.logger.Info().Int64("account_id", id).Str("email", in.Email).Msg("account registered")
	return id, nil
}

// Login verifies a password against the stored hash. Unknown email and wrong
// password are reported differently.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		return nil, domain.Invalid(domain.MsgCredentialsRequired)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.NotFound(domain.MsgUserDoesNotExist)
		}
		return nil, domain.Internal(domain.MsgServerError, err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, domain.Internal(domain.MsgPasswordVerification, err)
	}
	if !ok {
		s.logger.Warn().Str("email", email).Msg("login rejected: wrong password")
		return nil, domain.Unauthorized(domain.MsgWrongPassword)
	}

	account.PasswordHash = ""
	return account, nil
}

// CheckEmail reports whether an account exists for email.
func (s *AccountService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, domain.Invalid(domain.MsgEmailRequired)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return false, nil
	default:
		return false, domain.Internal(domain.MsgServerError, err)
	}
}

// ResetPassword replaces the password hash of the account owning email.
// Knowing the email is the only proof required.
func (s *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return domain.Invalid(domain.MsgResetFieldsRequired)
	}
	if utf8.RuneCountInString(newPassword) < domain.MinPasswordLength {
		return domain.Invalid(domain.MsgPasswordTooShort)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.Internal(domain.MsgPasswordProcessing, err)
	}

	n, err := s.repo.UpdatePasswordByEmail(context.WithoutCancel(ctx), email, hash)
	if err != nil {
		return domain.Internal(domain.MsgPasswordUpdateFailed, err)
	}
	if n == 0 {
		return domain.NotFound(domain.MsgUserNotFound)
	}

	s.logger.Info().Str("email", email).Msg("password reset")
	return nil
}
