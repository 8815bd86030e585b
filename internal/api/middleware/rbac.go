package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

// RequireRoles enforces that the authenticated caller holds one of roles.
// It must run after Authenticate.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[identity.Role]; !ok {
				return domain.ErrRoleForbidden
			}
			return next(c)
		}
	}
}
