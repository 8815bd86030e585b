package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type ProfileHandler struct {
	profileService ports.ProfileService
}

func NewProfileHandler(profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type updateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// Get returns the caller's profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]any
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
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

// Update changes the caller's profile fields.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profileService.Update(c.Request().Context(), caller.UserID, domain.ProfileUpdate{
		Name:      req.Name,
		Phone:     req.Phone,
		Location:  req.Location,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Deactivate disables the caller's account. Outstanding tokens stop working
// on their next use.
//
// @Summary      Deactivate own account
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /profile [delete]
func (h *ProfileHandler) Deactivate(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.profileService.Deactivate(c.Request().Context(), caller.UserID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "account deactivated")
}

// GetProvider returns a provider's public profile.
//
// @Summary      Provider profile
// @Tags         profile
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  domain.ProviderProfile
// @Failure      404  {object}  map[string]any
// @Router       /providers/{id} [get]
func (h *ProfileHandler) GetProvider(c echo.Context) error {
	profile, err := h.profileService.GetProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}
