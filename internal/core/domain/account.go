package domain

import "time"

// Account is a persisted identity keyed by email.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// MinPasswordLength is the shortest password accepted by a reset.
const MinPasswordLength = 6
