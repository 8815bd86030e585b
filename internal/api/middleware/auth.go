package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/metrics"
	"github.com/localpro/marketplace-api/internal/core/domain"
)

// Authenticator verifies a bearer token and re-checks the account behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// Authenticate validates the bearer token on every call and injects the
// caller's identity into the context. Failures are returned as domain errors
// for the HTTP error handler to render.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrAccountInactive):
					metrics.AuthFailuresTotal.WithLabelValues("inactive_account").Inc()
				case errors.Is(err, domain.ErrUnauthenticated):
					metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				}
				return err
			}

			SetIdentity(c, *identity)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
