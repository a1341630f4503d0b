package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/soundwave/accounts-api/internal/core/domain"
)

const (
	findByEmailQuery    = `SELECT id, name, email, phone, password, created_at, updated_at FROM users WHERE email = $1`
	insertAccountQuery  = `INSERT INTO users (name, email, phone, password) VALUES ($1, $2, $3, $4) RETURNING id`
	updatePasswordQuery = `UPDATE users SET password = $1, updated_at = now() WHERE email = $2`
)

// poolIface is the subset of *pgxpool.Pool used by the repository. It is
// satisfied by pgxmock in tests.
type poolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// AccountRepository stores accounts in the users table.
type AccountRepository struct {
	pool poolIface
}

func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := r.pool.QueryRow(ctx, findByEmailQuery, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) Insert(ctx context.Context, name, email, phone, passwordHash string) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, insertAccountQuery, name, email, phone, passwordHash).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

func (r *AccountRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error) {
	tag, err := r.pool.Exec(ctx, updatePasswordQuery, passwordHash, email)
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
