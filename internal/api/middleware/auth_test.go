package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

type stubAuthenticator struct {
	fn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	return s.fn(ctx, token)
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	auth := stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.Identity, error) {
		if token != "good-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.Identity{UserID: "u-1", Role: domain.RoleProvider}, nil
	}}

	c, rec := newAuthContext("Bearer good-token")
	called := false
	handler := Authenticate(auth)(func(c echo.Context) error {
		called = true
		id, ok := IdentityFrom(c)
		if !ok || id.UserID != "u-1" || id.Role != domain.RoleProvider {
			t.Fatalf("identity not set: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	auth := stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.Identity, error) {
		switch token {
		case "inactive":
			return nil, domain.ErrAccountInactive
		default:
			return nil, domain.ErrInvalidToken
		}
	}}

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"wrong scheme", "Basic abc", domain.ErrMissingToken},
		{"empty token", "Bearer   ", domain.ErrMissingToken},
		{"invalid token", "Bearer forged", domain.ErrInvalidToken},
		{"deactivated account", "Bearer inactive", domain.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newAuthContext(tt.header)
			handler := Authenticate(auth)(func(c echo.Context) error {
				t.Fatal("next must not run")
				return nil
			})
			if err := handler(c); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	if tok, ok := bearerToken("bearer abc"); !ok || tok != "abc" {
		t.Fatalf("got %q %v", tok, ok)
	}
}
