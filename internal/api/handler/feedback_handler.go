package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/metrics"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type FeedbackHandler struct {
	feedbackService ports.FeedbackService
}

func NewFeedbackHandler(feedbackService ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

type submitFeedbackRequest struct {
	ServiceRequestID string `json:"service_request_id" validate:"required"`
	Rating           int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment          string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// Submit records the calling customer's feedback on a completed request.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitFeedbackRequest  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fb, err := h.feedbackService.Submit(c.Request().Context(), caller, ports.SubmitFeedbackInput{
		ServiceRequestID: req.ServiceRequestID,
		Rating:           req.Rating,
		Comment:          req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.FeedbackSubmittedTotal.WithLabelValues(strconv.Itoa(fb.Rating)).Inc()
	return respond(c, http.StatusCreated, fb)
}

// ListForProvider returns a provider's visible feedback with its summary.
//
// @Summary      Provider feedback
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  domain.FeedbackSummary
// @Failure      404  {object}  map[string]any
// @Router       /feedback/provider/{id} [get]
func (h *FeedbackHandler) ListForProvider(c echo.Context) error {
	summary, err := h.feedbackService.ListForProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, summary)
}
