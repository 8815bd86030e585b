package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

func TestRequestHandler_Create(t *testing.T) {
	stub := &stubRequestService{
		createFn: func(ctx context.Context, actor domain.Identity, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
			if actor.UserID != customer.UserID {
				t.Fatalf("actor not forwarded: %+v", actor)
			}
			if in.ServiceID != "svc-1" || in.EstimatedDuration == nil || *in.EstimatedDuration != 90 || in.RequestedDate == nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.ServiceRequest{ID: "r-1", ServiceID: in.ServiceID, Status: domain.RequestPending}, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newContext(http.MethodPost, "/requests",
		`{"service_id":"svc-1","message":"leak","requested_date":"2026-11-02T10:00:00Z","estimated_duration":90}`, &customer)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if data := decodeData(t, rec.Body.Bytes()); data["status"] != "pending" {
		t.Fatalf("unexpected body: %v", data)
	}
}

func TestRequestHandler_Create_RejectsBadInput(t *testing.T) {
	h := NewRequestHandler(&stubRequestService{})

	for name, body := range map[string]string{
		"missing service":   `{"message":"hi"}`,
		"negative duration": `{"service_id":"svc-1","estimated_duration":-5}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/requests", body, &customer)
			if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	c, _ := newContext(http.MethodPost, "/requests", `{not json`, &customer)
	if err := h.Create(c); err == nil {
		t.Fatal("expected a bind error")
	}
}

func TestRequestHandler_UpdateStatus(t *testing.T) {
	stub := &stubRequestService{
		transitionFn: func(ctx context.Context, actor domain.Identity, id string, to domain.RequestStatus) (*domain.ServiceRequest, error) {
			if actor.Role == domain.RoleCustomer && to == domain.RequestAccepted {
				return nil, domain.ErrTransitionForbidden
			}
			return &domain.ServiceRequest{ID: id, Status: to}, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newContext(http.MethodPatch, "/requests/r-1", `{"status":"accepted"}`, &provider)
	c.SetParamNames("id")
	c.SetParamValues("r-1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if data := decodeData(t, rec.Body.Bytes()); data["id"] != "r-1" || data["status"] != "accepted" {
		t.Fatalf("unexpected body: %v", data)
	}

	c, _ = newContext(http.MethodPatch, "/requests/r-1", `{"status":"accepted"}`, &customer)
	c.SetParamNames("id")
	c.SetParamValues("r-1")
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customer accept: expected forbidden, got %v", err)
	}

	c, _ = newContext(http.MethodPatch, "/requests/r-1", `{"status":"archived"}`, &provider)
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown status: expected validation error, got %v", err)
	}
}

func TestRequestHandler_List_PassesQuery(t *testing.T) {
	stub := &stubRequestService{
		listFn: func(ctx context.Context, actor domain.Identity, in ports.ListRequestsInput) (*domain.Page[*domain.ServiceRequest], error) {
			if in.Status != domain.RequestCompleted || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("query not forwarded: %+v", in)
			}
			page := domain.NewPage([]*domain.ServiceRequest{}, 0, in.Page, in.Limit)
			return &page, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newContext(http.MethodGet, "/requests?status=completed&page=2&limit=5", "", &provider)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestHandler_Get_NotFound(t *testing.T) {
	stub := &stubRequestService{
		getFn: func(ctx context.Context, actor domain.Identity, id string) (*domain.ServiceRequest, error) {
			return nil, domain.ErrRequestNotFound
		},
	}
	h := NewRequestHandler(stub)

	c, _ := newContext(http.MethodGet, "/requests/r-9", "", &customer)
	c.SetParamNames("id")
	c.SetParamValues("r-9")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
