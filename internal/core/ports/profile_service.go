package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// ProfileService manages the caller's own account and public provider views.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	Deactivate(ctx context.Context, userID string) error
	GetProvider(ctx context.Context, providerID string) (*domain.ProviderProfile, error)
}
