package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// CreateServiceInput carries a new listing.
type CreateServiceInput struct {
	CategoryID  string
	Title       string
	Description string
	Price       float64
	PriceType   domain.PriceType
	Location    string
}

// CatalogService covers categories and service listings.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.ServiceCategory, error)
	CreateService(ctx context.Context, actor domain.Identity, input CreateServiceInput) (*domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	UpdateService(ctx context.Context, actor domain.Identity, id string, update domain.ServiceUpdate) (*domain.Service, error)
	DeleteService(ctx context.Context, actor domain.Identity, id string) error
	SearchServices(ctx context.Context, filter ServiceFilter) (*domain.Page[*domain.Service], error)
	ListOwnServices(ctx context.Context, actor domain.Identity, page, limit int) (*domain.Page[*domain.Service], error)
}
