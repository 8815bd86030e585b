package ports

import (
	"context"
	"time"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// TokenService issues and verifies access/refresh token pairs.
type TokenService interface {
	Issue(identity domain.Identity) (*domain.TokenPair, error)
	VerifyAccess(token string) (*domain.Identity, error)
	VerifyRefresh(token string) (*domain.Identity, error)
}

// PasswordHasher derives and checks one-way credential hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// RateDecision is the outcome of taking one token from a limiter.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter takes one token from the bucket identified by key.
type RateLimiter interface {
	Take(ctx context.Context, key string) (RateDecision, error)
}
