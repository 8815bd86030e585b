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

const maxCommentLength = 2000

// RatingObserver is told how long each provider rating recompute took.
type RatingObserver interface {
	ObserveRatingRecompute(d time.Duration)
}

type feedbackService struct {
	feedback ports.FeedbackRepository
	requests ports.RequestRepository
	users    ports.UserRepository
	tx       ports.Transactor
	policy   *domain.Policy
	observer RatingObserver
	log      zerolog.Logger
}

// NewFeedbackService returns a FeedbackService implementation. observer may
// be nil.
func NewFeedbackService(
	feedback ports.FeedbackRepository,
	requests ports.RequestRepository,
	users ports.UserRepository,
	tx ports.Transactor,
	policy *domain.Policy,
	observer RatingObserver,
	log zerolog.Logger,
) ports.FeedbackService {
	return &feedbackService{
		feedback: feedback,
		requests: requests,
		users:    users,
		tx:       tx,
		policy:   policy,
		observer: observer,
		log:      log,
	}
}

// Submit records the caller's feedback on one of their completed requests and
// refreshes the provider's rating in the same transaction. The rating is the
// mean over every feedback the provider has, so each call is O(n) in that
// count.
func (s *feedbackService) Submit(ctx context.Context, actor domain.Identity, in ports.SubmitFeedbackInput) (*domain.Feedback, error) {
	if strings.TrimSpace(in.ServiceRequestID) == "" {
		return nil, domain.Validationf("service_request_id is required")
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	if len(in.Comment) > maxCommentLength {
		return nil, domain.Validationf("comment must be at most %d characters", maxCommentLength)
	}

	req, err := s.requests.FindByID(ctx, in.ServiceRequestID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(domain.OpFeedbackSubmit, actor, req, ""); err != nil {
		return nil, err
	}

	exists, err := s.feedback.ExistsForRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	if exists {
		return nil, domain.ErrFeedbackExists
	}

	fb := &domain.Feedback{
		ServiceRequestID: req.ID,
		CustomerID:       actor.UserID,
		ProviderID:       req.ProviderID,
		Rating:           in.Rating,
		Comment:          in.Comment,
		IsVisible:        true,
		CreatedAt:        time.Now().UTC(),
	}

	var rating float64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.feedback.Create(ctx, fb); err != nil {
			return err
		}
		r, err := s.recomputeRating(ctx, fb.ProviderID)
		if err != nil {
			return err
		}
		rating = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}

	s.log.Info().
		Str("feedback_id", fb.ID).
		Str("request_id", fb.ServiceRequestID).
		Str("provider_id", fb.ProviderID).
		Float64("provider_rating", rating).
		Msg("feedback submitted")
	return fb, nil
}

func (s *feedbackService) recomputeRating(ctx context.Context, providerID string) (float64, error) {
	start := time.Now()
	sum, count, err := s.feedback.RatingsForProvider(ctx, providerID)
	if err != nil {
		return 0, err
	}
	rating := domain.AverageRating(sum, count)
	if err := s.users.UpdateRating(ctx, providerID, rating); err != nil {
		return 0, err
	}
	if s.observer != nil {
		s.observer.ObserveRatingRecompute(time.Since(start))
	}
	return rating, nil
}

// ListForProvider returns the provider's visible feedback. Average and total
// are computed over the returned items, which can differ from the stored
// rating since that one counts hidden feedback too.
func (s *feedbackService) ListForProvider(ctx context.Context, providerID string) (*domain.FeedbackSummary, error) {
	user, err := s.users.FindByID(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if user.Role != domain.RoleProvider {
		return nil, domain.ErrProviderNotFound
	}

	items, err := s.feedback.ListVisibleForProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	summary := domain.Summarize(items)
	return &summary, nil
}
