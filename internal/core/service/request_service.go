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

const maxMessageLength = 2000

type requestService struct {
	requests ports.RequestRepository
	services ports.ServiceRepository
	policy   *domain.Policy
	log      zerolog.Logger
}

// NewRequestService returns a RequestService implementation.
func NewRequestService(
	requests ports.RequestRepository,
	services ports.ServiceRepository,
	policy *domain.Policy,
	log zerolog.Logger,
) ports.RequestService {
	return &requestService{requests: requests, services: services, policy: policy, log: log}
}

// Create books an active service for the calling customer. The new request
// starts pending and inherits the service owner as its provider.
func (s *requestService) Create(ctx context.Context, actor domain.Identity, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	if err := s.policy.Authorize(domain.OpRequestCreate, actor, nil, ""); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ServiceID) == "" {
		return nil, domain.Validationf("service_id is required")
	}
	if len(in.Message) > maxMessageLength {
		return nil, domain.Validationf("message must be at most %d characters", maxMessageLength)
	}
	if in.EstimatedDuration != nil && *in.EstimatedDuration <= 0 {
		return nil, domain.Validationf("estimated_duration must be a positive number of minutes")
	}

	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	open, err := s.requests.ExistsOpen(ctx, svc.ID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if open {
		return nil, domain.ErrOpenRequestExists
	}

	now := time.Now().UTC()
	req := &domain.ServiceRequest{
		ServiceID:         svc.ID,
		CustomerID:        actor.UserID,
		ProviderID:        svc.ProviderID,
		Status:            domain.RequestPending,
		Message:           in.Message,
		RequestedDate:     in.RequestedDate,
		EstimatedDuration: in.EstimatedDuration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	// The storage index catches a duplicate that raced past ExistsOpen.
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.log.Info().
		Str("request_id", req.ID).
		Str("service_id", req.ServiceID).
		Str("customer_id", req.CustomerID).
		Msg("service request created")
	return req, nil
}

func (s *requestService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.ServiceRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(domain.OpRequestView, actor, req, ""); err != nil {
		return nil, err
	}
	return req, nil
}

// Transition moves a request to target when the policy allows the caller
// to. The write only lands if nobody changed the status since it was read.
func (s *requestService) Transition(ctx context.Context, actor domain.Identity, id string, target domain.RequestStatus) (*domain.ServiceRequest, error) {
	if !target.Valid() {
		return nil, domain.Validationf("status must be one of pending, accepted, declined, completed, cancelled")
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(domain.OpRequestTransition, actor, req, target); err != nil {
		return nil, err
	}

	from := req.Status
	now := time.Now().UTC()
	if err := s.requests.UpdateStatus(ctx, req.ID, from, target, now); err != nil {
		return nil, fmt.Errorf("transition request: %w", err)
	}
	req.Status = target
	req.UpdatedAt = now

	s.log.Info().
		Str("request_id", req.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("actor_id", actor.UserID).
		Msg("service request transitioned")
	return req, nil
}

// List returns the caller's own requests: customers see what they booked,
// providers what was booked from them.
func (s *requestService) List(ctx context.Context, actor domain.Identity, in ports.ListRequestsInput) (*domain.Page[*domain.ServiceRequest], error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Validationf("invalid status filter %q", in.Status)
	}
	page, limit := domain.NormalizePage(in.Page, in.Limit)

	filter := ports.RequestFilter{Status: in.Status, Page: page, Limit: limit}
	switch actor.Role {
	case domain.RoleCustomer:
		filter.CustomerID = actor.UserID
	case domain.RoleProvider:
		filter.ProviderID = actor.UserID
	default:
		return nil, domain.ErrRoleForbidden
	}

	items, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	result := domain.NewPage(items, total, page, limit)
	return &result, nil
}
