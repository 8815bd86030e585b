package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/metrics"
	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	profileService ports.ProfileService
}

func NewAuthHandler(authService ports.AuthService, profileService ports.ProfileService) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=customer provider"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Location string `json:"location,omitempty" validate:"omitempty,max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
}

// Register creates a new account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, result)
}

// Login exchanges credentials for a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		recordAuthFailure(err)
		return err
	}

	return respond(c, http.StatusOK, result)
}

// Refresh issues a new token pair from a refresh token.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		recordAuthFailure(err)
		return err
	}

	return respond(c, http.StatusOK, refreshResponse{Tokens: tokens})
}

// Me returns the authenticated caller's account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.profileService.Get(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, user)
}

func recordAuthFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
	case errors.Is(err, domain.ErrAccountInactive):
		metrics.AuthFailuresTotal.WithLabelValues("inactive_account").Inc()
	case errors.Is(err, domain.ErrInvalidToken):
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
	}
}
