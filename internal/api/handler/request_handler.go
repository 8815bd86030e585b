package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/metrics"
	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type RequestHandler struct {
	requestService ports.RequestService
}

func NewRequestHandler(requestService ports.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

type createRequestRequest struct {
	ServiceID         string     `json:"service_id" validate:"required"`
	Message           string     `json:"message,omitempty" validate:"omitempty,max=2000"`
	RequestedDate     *time.Time `json:"requested_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted declined completed cancelled"`
}

type listRequestsQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// Create books a service on behalf of the calling customer.
//
// @Summary      Create a service request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request details"
// @Success      201   {object}  domain.ServiceRequest
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.requestService.Create(c.Request().Context(), caller, ports.CreateRequestInput{
		ServiceID:         req.ServiceID,
		Message:           req.Message,
		RequestedDate:     req.RequestedDate,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		return err
	}

	metrics.RequestsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, created)
}

// List returns the caller's requests: placed ones for customers, received
// ones for providers.
//
// @Summary      List service requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number"   default(1)
// @Param        limit   query     int     false  "Page size"     default(20)
// @Success      200     {object}  domain.Page[domain.ServiceRequest]
// @Failure      400     {object}  map[string]any
// @Router       /requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var q listRequestsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.requestService.List(c.Request().Context(), caller, ports.ListRequestsInput{
		Status: domain.RequestStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, page)
}

// Get returns a request the caller is a party to.
//
// @Summary      Get a service request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  domain.ServiceRequest
// @Failure      404  {object}  map[string]any
// @Router       /requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	req, err := h.requestService.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, req)
}

// UpdateStatus moves a request to a new status.
//
// @Summary      Change request status
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Request ID"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  domain.ServiceRequest
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /requests/{id} [patch]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.requestService.Transition(c.Request().Context(), caller, c.Param("id"), domain.RequestStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.RequestTransitionsTotal.WithLabelValues(string(updated.Status), string(caller.Role)).Inc()
	return respond(c, http.StatusOK, updated)
}
