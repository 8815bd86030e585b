package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// FeedbackRepository defines persistence operations for feedback.
type FeedbackRepository interface {
	// Create stores feedback, returning domain.ErrFeedbackExists when the
	// request already has one.
	Create(ctx context.Context, f *domain.Feedback) error
	ExistsForRequest(ctx context.Context, requestID string) (bool, error)
	// RatingsForProvider returns the sum and count of every rating the
	// provider has received, visible or not.
	RatingsForProvider(ctx context.Context, providerID string) (sum, count int64, err error)
	// ListVisibleForProvider returns visible feedback, newest first.
	ListVisibleForProvider(ctx context.Context, providerID string) ([]*domain.Feedback, error)
}

// Transactor runs fn inside a storage transaction. Repository calls made
// with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
