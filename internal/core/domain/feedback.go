package domain

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a customer's rating of a completed request. Immutable once stored.
type Feedback struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"service_request_id"`
	CustomerID       string    `json:"customer_id"`
	ProviderID       string    `json:"provider_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment,omitempty"`
	IsVisible        bool      `json:"is_visible"`
	CreatedAt        time.Time `json:"created_at"`
}

// RoundRating rounds a mean rating to one decimal place, half away from zero.
func RoundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}

// AverageRating returns the rounded mean of sum over count, or 0 when count is 0.
func AverageRating(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return RoundRating(float64(sum) / float64(count))
}

// FeedbackSummary is the public listing for one provider. Average and
// total are computed from Items only.
type FeedbackSummary struct {
	Items         []*Feedback `json:"feedback"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
}

// Summarize builds a FeedbackSummary over items.
func Summarize(items []*Feedback) FeedbackSummary {
	var sum int64
	for _, f := range items {
		sum += int64(f.Rating)
	}
	if items == nil {
		items = []*Feedback{}
	}
	return FeedbackSummary{
		Items:         items,
		AverageRating: AverageRating(sum, int64(len(items))),
		TotalReviews:  len(items),
	}
}
