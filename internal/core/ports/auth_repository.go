package ports

import (
	"context"

	"github.com/carhub/listings-api/internal/core/domain"
)

// AuthRepository defines the interface for user account persistence.
// Create must enforce email uniqueness at the store level; a concurrent
// insert with the same email returns domain.ErrEmailTaken from exactly one
// of the two calls.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
