// Package store holds the persistence backends for user accounts.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/ender-auth-be/internal/models"
)

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert collides with the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore defines the persistence operations for user accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
}
