package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/creatorpay/checkout/pkg/webhook"
	"github.com/labstack/echo/v4"
)

// WebhookHandler handles inbound payment processor events
type WebhookHandler struct {
	reconciler *webhook.Reconciler
	log        logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(reconciler *webhook.Reconciler, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		log:        log,
	}
}

// HandleWebhook godoc
// @Summary Receive processor webhook
// @Description Verify and dispatch a payment processor event delivery
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} models.WebhookAck "Delivery acknowledged"
// @Failure 400 {string} string "Signature verification failed"
// @Router /api/webhook [post]
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	// Signature verification needs the body exactly as sent.
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.log.Error("failed to read webhook body", "error", err)
		return c.String(http.StatusBadRequest, "Webhook Error: could not read request body")
	}

	signature := c.Request().Header.Get("Stripe-Signature")

	if err := h.reconciler.Handle(ctx, payload, signature); err != nil {
		// The processor expects a plain-text failure body, not our JSON
		// error envelope.
		var derr *domain.DomainError
		if errors.As(err, &derr) && derr.Err != nil {
			return c.String(http.StatusBadRequest, "Webhook Error: "+derr.Err.Error())
		}
		return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.WebhookAck{Received: true})
}
