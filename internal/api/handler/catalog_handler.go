package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type CatalogHandler struct {
	catalogService ports.CatalogService
}

func NewCatalogHandler(catalogService ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type createServiceRequest struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	PriceType   string  `json:"price_type" validate:"required,oneof=hourly fixed negotiable"`
	Location    string  `json:"location,omitempty" validate:"omitempty,max=200"`
}

type updateServiceRequest struct {
	CategoryID  *string  `json:"category_id,omitempty"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	PriceType   *string  `json:"price_type,omitempty" validate:"omitempty,oneof=hourly fixed negotiable"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
}

type searchServicesQuery struct {
	CategoryID string `query:"category_id"`
	ProviderID string `query:"provider_id"`
	PriceType  string `query:"price_type"`
	Search     string `query:"q"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

type pageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// ListCategories returns the active service categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.ServiceCategory
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cats)
}

// CreateService publishes a listing for the calling provider.
//
// @Summary      Create a service listing
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Listing"
// @Success      201   {object}  domain.Service
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /services [post]
func (h *CatalogHandler) CreateService(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	svc, err := h.catalogService.CreateService(c.Request().Context(), caller, ports.CreateServiceInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PriceType:   domain.PriceType(req.PriceType),
		Location:    req.Location,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, svc)
}

// SearchServices lists active listings matching the query.
//
// @Summary      Search services
// @Tags         catalog
// @Produce      json
// @Param        category_id  query     string  false  "Category"
// @Param        provider_id  query     string  false  "Provider"
// @Param        price_type   query     string  false  "hourly, fixed or negotiable"
// @Param        q            query     string  false  "Title search"
// @Param        min_price    query     number  false  "Minimum price"
// @Param        max_price    query     number  false  "Maximum price"
// @Param        page         query     int     false  "Page number"  default(1)
// @Param        limit        query     int     false  "Page size"    default(20)
// @Success      200          {object}  domain.Page[domain.Service]
// @Failure      400          {object}  map[string]any
// @Router       /services [get]
func (h *CatalogHandler) SearchServices(c echo.Context) error {
	var q searchServicesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	minPrice, err := optionalFloat(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := optionalFloat(c, "max_price")
	if err != nil {
		return err
	}

	page, err := h.catalogService.SearchServices(c.Request().Context(), ports.ServiceFilter{
		CategoryID: q.CategoryID,
		ProviderID: q.ProviderID,
		Search:     q.Search,
		PriceType:  domain.PriceType(q.PriceType),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, page)
}

// ListMyServices lists the calling provider's listings, inactive included.
//
// @Summary      List own services
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(20)
// @Success      200    {object}  domain.Page[domain.Service]
// @Failure      403    {object}  map[string]any
// @Router       /services/mine [get]
func (h *CatalogHandler) ListMyServices(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.catalogService.ListOwnServices(c.Request().Context(), caller, q.Page, q.Limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, page)
}

// GetService returns one active listing.
//
// @Summary      Get a service
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  domain.Service
// @Failure      404  {object}  map[string]any
// @Router       /services/{id} [get]
func (h *CatalogHandler) GetService(c echo.Context) error {
	svc, err := h.catalogService.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, svc)
}

// UpdateService applies a partial update to one of the caller's listings.
//
// @Summary      Update a service
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service ID"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  domain.Service
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /services/{id} [patch]
func (h *CatalogHandler) UpdateService(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	update := domain.ServiceUpdate{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
	}
	if req.PriceType != nil {
		pt := domain.PriceType(*req.PriceType)
		update.PriceType = &pt
	}

	svc, err := h.catalogService.UpdateService(c.Request().Context(), caller, c.Param("id"), update)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, svc)
}

// DeleteService deactivates one of the caller's listings.
//
// @Summary      Delete a service
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /services/{id} [delete]
func (h *CatalogHandler) DeleteService(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteService(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "service deleted")
}

// optionalFloat parses an optional numeric query parameter.
func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Validationf("%s must be a number", name)
	}
	return &v, nil
}
