package users

import (
	"context"

	"github.com/primesolution/invoicer/internal/server/models"
)

// Repository describes storage operations over operator accounts.
type Repository interface {
	// GetByUsername returns one account, or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetAll returns every account ordered by username.
	GetAll(ctx context.Context) ([]models.User, error)

	// Create adds an account; a duplicate username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) error

	// Update rewrites an account's mutable fields. An empty PasswordHash
	// keeps the stored hash.
	Update(ctx context.Context, u *models.User) error

	// Delete removes an account, or common.ErrorNotFound.
	Delete(ctx context.Context, username string) error
}
