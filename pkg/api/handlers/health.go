package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	upstreamBaseURL string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(upstreamBaseURL string) *HealthHandler {
	return &HealthHandler{
		upstreamBaseURL: upstreamBaseURL,
	}
}

// Health godoc
// @Summary Health check
// @Description Report service liveness and the configured upstream
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Service status"
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":          "ok",
		"message":         "Payment service is running",
		"upstreamBaseUrl": h.upstreamBaseURL,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
