package ports

import (
	"context"
	"time"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// ServiceFilter carries the query parameters for listing services.
type ServiceFilter struct {
	CategoryID      string           // optional
	ProviderID      string           // optional
	Search          string           // optional: case-insensitive match on title
	PriceType       domain.PriceType // optional
	MinPrice        *float64         // optional
	MaxPrice        *float64         // optional
	IncludeInactive bool             // owner listings only
	Page            int              // 1-based
	Limit           int              // capped at domain.MaxPageLimit by the service
}

// ServiceRepository defines persistence operations for listings.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	// FindByID returns domain.ErrServiceNotFound when no listing matches,
	// active or not.
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	// Update replaces the mutable fields of s, including IsActive.
	Update(ctx context.Context, s *domain.Service) error
	List(ctx context.Context, filter ServiceFilter) ([]*domain.Service, int64, error)
}

// CategoryRepository reads the category reference data.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]*domain.ServiceCategory, error)
	FindByID(ctx context.Context, id string) (*domain.ServiceCategory, error)
	// Upsert inserts or updates a category by name. Used by seeding only.
	Upsert(ctx context.Context, c *domain.ServiceCategory) error
}

// CategoryCache caches the active category list.
type CategoryCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (categories []*domain.ServiceCategory, ok bool, err error)
	Set(ctx context.Context, categories []*domain.ServiceCategory, ttl time.Duration) error
}
