package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	// Create persists a new user; a duplicate email returns ErrEmailTaken.
	Create(ctx context.Context, user *User) error
	// GetByEmail returns ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}

// SessionRepository tracks issued tokens so logout can revoke them before
// they expire.
type SessionRepository interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}
