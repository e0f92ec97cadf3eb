package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespond_DomainErrorKeepsStatusAndMessage(t *testing.T) {
	c, rec := newContext()

	err := Respond(c, logger.Default(), domain.NewProfileNotFoundError(http.StatusNotFound, "Profile not found"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Profile not found", body.Error)
}

func TestRespond_UnknownErrorBecomesGeneric500(t *testing.T) {
	c, rec := newContext()

	err := Respond(c, logger.Default(), errors.New("pq: connection refused"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Error, "pq:", "internal detail must not leak")
}

func TestValidationError(t *testing.T) {
	c, rec := newContext()

	err := ValidationError(c, logger.Default(), errors.New("Field validation for 'PlanID' failed"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid request data", body.Error)
	assert.Contains(t, body.Details, "PlanID")
}
