package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type profileService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

// NewProfileService returns a ProfileService implementation.
func NewProfileService(users ports.UserRepository, log zerolog.Logger) ports.ProfileService {
	return &profileService{users: users, log: log}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *profileService) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return nil, domain.Validationf("no profile fields to update")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, domain.Validationf("name must not be empty")
		}
		update.Name = &name
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Deactivate disables the account. Outstanding tokens stop working on the
// next authenticated call.
func (s *profileService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("account deactivated")
	return nil
}

func (s *profileService) GetProvider(ctx context.Context, providerID string) (*domain.ProviderProfile, error) {
	user, err := s.users.FindByID(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}
	if user.Role != domain.RoleProvider || !user.IsActive {
		return nil, domain.ErrProviderNotFound
	}
	return &domain.ProviderProfile{
		ID:         user.ID,
		Name:       user.Name,
		Location:   user.Location,
		AvatarURL:  user.AvatarURL,
		IsVerified: user.IsVerified,
		Rating:     user.Rating,
		MemberFrom: user.CreatedAt,
	}, nil
}
