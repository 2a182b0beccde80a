package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken means signup hit the unique email constraint.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidInput means a required field is missing or blank.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials means the password check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repo persists user accounts.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
