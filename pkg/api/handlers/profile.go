package handlers

import (
	"net/http"

	apierrors "github.com/creatorpay/checkout/pkg/api/errors"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/creatorpay/checkout/pkg/pricing"
	"github.com/creatorpay/checkout/pkg/profile"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles profile lookup and plan listing requests
type ProfileHandler struct {
	gateway *profile.Gateway
	log     logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(gateway *profile.Gateway, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		gateway: gateway,
		log:     log,
	}
}

// GetProfile godoc
// @Summary Get creator profile
// @Description Fetch a creator profile from the upstream content service
// @Tags profiles
// @Produce json
// @Param username path string true "Creator username"
// @Success 200 {object} profile.Profile "Profile"
// @Failure 404 {object} models.ErrorResponse "Profile not found"
// @Failure 502 {object} models.ErrorResponse "Upstream unavailable"
// @Router /api/profile/{username} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	p, err := h.gateway.Fetch(ctx, username)
	if err != nil {
		return apierrors.Respond(c, h.log, err)
	}

	// Forward the upstream body as-is so fields we do not model survive.
	return c.JSONBlob(http.StatusOK, p.Raw)
}

// GetSubscriptionPlans godoc
// @Summary List subscription plans
// @Description Compute the three plan offers for a creator's monthly price
// @Tags profiles
// @Produce json
// @Param username path string true "Creator username"
// @Success 200 {object} models.SubscriptionPlansResponse "Profile and plans"
// @Failure 404 {object} models.ErrorResponse "Profile not found"
// @Failure 502 {object} models.ErrorResponse "Upstream unavailable"
// @Router /api/subscription-plans/{username} [get]
func (h *ProfileHandler) GetSubscriptionPlans(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	p, err := h.gateway.Fetch(ctx, username)
	if err != nil {
		return apierrors.Respond(c, h.log, err)
	}

	return c.JSON(http.StatusOK, models.SubscriptionPlansResponse{
		Profile: models.PlansProfile{
			ID:           p.ID,
			Username:     p.Username,
			DisplayName:  p.DisplayName,
			MonthlyPrice: p.SubscriptionPrice,
		},
		Plans: pricing.BuildPlanOffers(p.SubscriptionPrice),
	})
}
