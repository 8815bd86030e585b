package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

const identityKey = "identity"

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
