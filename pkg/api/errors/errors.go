package errors

import (
	"errors"
	"net/http"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/labstack/echo/v4"
)

// Respond translates a service error into the JSON error body for the client.
// Domain errors carry their own status and a message safe to expose; anything
// else becomes a generic 500.
func Respond(c echo.Context, log logger.Logger, err error) error {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		if derr.Status >= http.StatusInternalServerError {
			log.Error("request failed", "path", c.Request().URL.Path, "code", derr.Code, "error", err)
		}
		return c.JSON(derr.Status, models.ErrorResponse{
			Error: derr.Message,
		})
	}

	log.Error("unexpected error", "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: "An internal error occurred. Please try again later.",
	})
}

// ValidationError returns a 400 naming the offending fields without exposing
// validator internals.
func ValidationError(c echo.Context, log logger.Logger, err error) error {
	log.Info("validation failed", "path", c.Request().URL.Path, "error", err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "Invalid request data",
		Details: err.Error(),
	})
}
