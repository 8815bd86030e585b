package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
	Name     string
	Phone    string
	Location string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   *domain.User      `json:"user"`
}

// AuthService covers credentials, sessions and bearer authentication.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Authenticate verifies an access token and re-checks that the account
	// still exists and is active.
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
}
