package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type catalogService struct {
	services   ports.ServiceRepository
	categories ports.CategoryRepository
	cache      ports.CategoryCache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewCatalogService returns a CatalogService implementation. cache may be nil,
// in which case categories are always read from the repository.
func NewCatalogService(
	services ports.ServiceRepository,
	categories ports.CategoryRepository,
	cache ports.CategoryCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) ports.CatalogService {
	return &catalogService{
		services:   services,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// ListCategories serves from the cache when possible. Cache errors are
// logged and never fail the call.
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.ServiceCategory, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("category cache read failed, falling back to store")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *catalogService) CreateService(ctx context.Context, actor domain.Identity, in ports.CreateServiceInput) (*domain.Service, error) {
	if actor.Role != domain.RoleProvider {
		return nil, domain.ErrRoleForbidden
	}

	svc := &domain.Service{
		ProviderID:  actor.UserID,
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		PriceType:   in.PriceType,
		Location:    in.Location,
		IsActive:    true,
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}
	if err := s.requireActiveCategory(ctx, svc.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info().Str("service_id", svc.ID).Str("provider_id", svc.ProviderID).Msg("service published")
	return svc, nil
}

// GetService returns an active listing; inactive ones read as not found.
func (s *catalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

func (s *catalogService) UpdateService(ctx context.Context, actor domain.Identity, id string, update domain.ServiceUpdate) (*domain.Service, error) {
	svc, err := s.ownedService(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	categoryChanged := update.CategoryID != nil && *update.CategoryID != svc.CategoryID
	update.Apply(svc)
	svc.Title = strings.TrimSpace(svc.Title)
	svc.Description = strings.TrimSpace(svc.Description)
	if err := validateService(svc); err != nil {
		return nil, err
	}
	if categoryChanged {
		if err := s.requireActiveCategory(ctx, svc.CategoryID); err != nil {
			return nil, err
		}
	}

	svc.UpdatedAt = time.Now().UTC()
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

// DeleteService soft-deletes the listing. Existing requests keep pointing at it.
func (s *catalogService) DeleteService(ctx context.Context, actor domain.Identity, id string) error {
	svc, err := s.ownedService(ctx, actor, id)
	if err != nil {
		return err
	}
	if !svc.IsActive {
		return nil
	}
	svc.IsActive = false
	svc.UpdatedAt = time.Now().UTC()
	if err := s.services.Update(ctx, svc); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	s.log.Info().Str("service_id", svc.ID).Msg("service deactivated")
	return nil
}

func (s *catalogService) SearchServices(ctx context.Context, filter ports.ServiceFilter) (*domain.Page[*domain.Service], error) {
	if filter.PriceType != "" && !filter.PriceType.Valid() {
		return nil, domain.Validationf("invalid price_type %q", filter.PriceType)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, domain.Validationf("min_price must not exceed max_price")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.IncludeInactive = false
	return s.list(ctx, filter)
}

func (s *catalogService) ListOwnServices(ctx context.Context, actor domain.Identity, page, limit int) (*domain.Page[*domain.Service], error) {
	if actor.Role != domain.RoleProvider {
		return nil, domain.ErrRoleForbidden
	}
	return s.list(ctx, ports.ServiceFilter{
		ProviderID:      actor.UserID,
		IncludeInactive: true,
		Page:            page,
		Limit:           limit,
	})
}

func (s *catalogService) list(ctx context.Context, filter ports.ServiceFilter) (*domain.Page[*domain.Service], error) {
	filter.Page, filter.Limit = domain.NormalizePage(filter.Page, filter.Limit)
	items, total, err := s.services.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	result := domain.NewPage(items, total, filter.Page, filter.Limit)
	return &result, nil
}

func (s *catalogService) ownedService(ctx context.Context, actor domain.Identity, id string) (*domain.Service, error) {
	if actor.Role != domain.RoleProvider {
		return nil, domain.ErrRoleForbidden
	}
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.OwnedBy(actor.UserID) {
		return nil, domain.ErrNotServiceOwner
	}
	return svc, nil
}

func (s *catalogService) requireActiveCategory(ctx context.Context, id string) error {
	cat, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !cat.IsActive) {
		return domain.Validationf("category_id does not reference an active category")
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}

func validateService(svc *domain.Service) error {
	switch {
	case svc.Title == "":
		return domain.Validationf("title is required")
	case len(svc.Title) > maxTitleLength:
		return domain.Validationf("title must be at most %d characters", maxTitleLength)
	case svc.Description == "":
		return domain.Validationf("description is required")
	case len(svc.Description) > maxDescriptionLength:
		return domain.Validationf("description must be at most %d characters", maxDescriptionLength)
	case svc.CategoryID == "":
		return domain.Validationf("category_id is required")
	case svc.Price < 0:
		return domain.Validationf("price must not be negative")
	case !svc.PriceType.Valid():
		return domain.Validationf("price_type must be one of hourly, fixed, negotiable")
	}
	return nil
}
