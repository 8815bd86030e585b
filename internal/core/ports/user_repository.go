package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
// Lookups return domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	// Create stores a new account, returning domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	// UpdateRating overwrites the derived provider rating.
	UpdateRating(ctx context.Context, id string, rating float64) error
	SetActive(ctx context.Context, id string, active bool) error
}
