package repositories

import (
	"context"
	"errors"

	"userdir/internal/models"
)

var (
	// ErrUserNotFound is returned (wrapped) when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned (wrapped) when a write would break
	// username uniqueness.
	ErrDuplicateUsername = errors.New("duplicate username")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Create assigns user.ID.
	Create(ctx context.Context, user *models.User) error
	// Update persists the mutable fields (username, status, birthday) of user.
	Update(ctx context.Context, user *models.User) error
	// Transaction runs fn against a repository bound to a single transaction.
	// The transaction is rolled back if fn returns an error.
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
}
