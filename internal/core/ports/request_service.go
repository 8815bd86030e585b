package ports

import (
	"context"
	"time"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// CreateRequestInput carries a customer's booking of a service.
type CreateRequestInput struct {
	ServiceID         string
	Message           string
	RequestedDate     *time.Time
	EstimatedDuration *int // minutes
}

// ListRequestsInput carries the list parameters. Scoping to the caller is
// done by the service.
type ListRequestsInput struct {
	Status domain.RequestStatus
	Page   int
	Limit  int
}

// RequestService defines the service request lifecycle use cases.
type RequestService interface {
	Create(ctx context.Context, actor domain.Identity, input CreateRequestInput) (*domain.ServiceRequest, error)
	Get(ctx context.Context, actor domain.Identity, id string) (*domain.ServiceRequest, error)
	Transition(ctx context.Context, actor domain.Identity, id string, target domain.RequestStatus) (*domain.ServiceRequest, error)
	List(ctx context.Context, actor domain.Identity, input ListRequestsInput) (*domain.Page[*domain.ServiceRequest], error)
}
