package handlers

import (
	"net/http"

	apierrors "github.com/creatorpay/checkout/pkg/api/errors"
	"github.com/creatorpay/checkout/pkg/checkout"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CheckoutHandler handles checkout session requests
type CheckoutHandler struct {
	service  *checkout.Service
	validate *validator.Validate
	log      logger.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service *checkout.Service, log logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// CreateCheckoutSession godoc
// @Summary Create checkout session
// @Description Create a hosted payment session for a creator subscription plan
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body models.CheckoutRequest true "Checkout request"
// @Success 200 {object} models.CheckoutResponse "Session id and redirect URL"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 500 {object} models.ErrorResponse "Processor error"
// @Router /api/create-checkout-session [post]
func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, h.log, err)
	}

	resp, err := h.service.CreateSession(ctx, req)
	if err != nil {
		return apierrors.Respond(c, h.log, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// GetSession godoc
// @Summary Get checkout session
// @Description Retrieve a checkout session summary by its identifier
// @Tags checkout
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.SessionSummary "Session summary"
// @Failure 500 {object} models.ErrorResponse "Lookup failed"
// @Router /api/session/{session_id} [get]
func (h *CheckoutHandler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Session ID is required",
		})
	}

	summary, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		return apierrors.Respond(c, h.log, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// ReloadCache godoc
// @Summary Reload cache
// @Description Acknowledge a cache reload request. The service recomputes
// everything per request and holds no cache; the endpoint exists for callers
// that expect it.
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string "Acknowledgement"
// @Router /api/reload-cache [post]
func (h *CheckoutHandler) ReloadCache(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Nothing to reload; pricing is computed per request",
	})
}
