package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/middleware"
	"github.com/localpro/marketplace-api/internal/core/domain"
)

// callerIdentity returns the identity injected by the Authenticate
// middleware. A missing identity means the route was mounted without it.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}
