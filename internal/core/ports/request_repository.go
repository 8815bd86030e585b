package ports

import (
	"context"
	"time"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// RequestFilter scopes a request listing to one party.
// Exactly one of CustomerID and ProviderID is set by the service layer.
type RequestFilter struct {
	CustomerID string
	ProviderID string
	Status     domain.RequestStatus // optional
	Page       int
	Limit      int
}

// RequestRepository defines persistence operations for service requests.
type RequestRepository interface {
	// Create stores a new request. A concurrent open request for the same
	// (service, customer) pair surfaces as domain.ErrOpenRequestExists.
	Create(ctx context.Context, r *domain.ServiceRequest) error
	FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	// ExistsOpen reports whether a pending or accepted request exists for
	// the pair.
	ExistsOpen(ctx context.Context, serviceID, customerID string) (bool, error)
	// UpdateStatus moves the request from -> to only if its status is still
	// from; otherwise it returns domain.ErrStatusChanged.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus, at time.Time) error
	List(ctx context.Context, filter RequestFilter) ([]*domain.ServiceRequest, int64, error)
}
