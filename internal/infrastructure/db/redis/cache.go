package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

const categoriesKey = "cache:categories:active"

// CategoryCache stores the active category list as one JSON value.
type CategoryCache struct {
	client *redis.Client
}

// NewCategoryCache creates a CategoryCache wrapping the given Redis client.
func NewCategoryCache(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

var _ ports.CategoryCache = (*CategoryCache)(nil)

func (c *CategoryCache) Get(ctx context.Context) ([]*domain.ServiceCategory, bool, error) {
	raw, err := c.client.Get(ctx, categoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("category cache get: %w", err)
	}

	var categories []*domain.ServiceCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, fmt.Errorf("category cache decode: %w", err)
	}
	return categories, true, nil
}

// Set replaces the cached list; it expires after ttl.
func (c *CategoryCache) Set(ctx context.Context, categories []*domain.ServiceCategory, ttl time.Duration) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoriesKey, raw, ttl).Err()
}

// Invalidate drops the cached list so the next read goes to the store.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}
