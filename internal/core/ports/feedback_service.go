package ports

import (
	"context"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

type SubmitFeedbackInput struct {
	ServiceRequestID string
	Rating           int
	Comment          string
}

// FeedbackService records feedback and maintains provider ratings.
type FeedbackService interface {
	Submit(ctx context.Context, actor domain.Identity, input SubmitFeedbackInput) (*domain.Feedback, error)
	ListForProvider(ctx context.Context, providerID string) (*domain.FeedbackSummary, error)
}
