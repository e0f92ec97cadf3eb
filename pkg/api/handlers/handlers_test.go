package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/creatorpay/checkout/pkg/checkout"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/creatorpay/checkout/pkg/profile"
	"github.com/creatorpay/checkout/pkg/webhook"
	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	session *stripe.CheckoutSession
	err     error
}

func (s *stubProcessor) CreateSession(_ context.Context, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.session, s.err
}

func (s *stubProcessor) GetSession(_ context.Context, _ string) (*stripe.CheckoutSession, error) {
	return s.session, s.err
}

func upstreamServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func profileJSON() string {
	return `{"id": 42, "username": "maria", "display_name": "Maria Clara Souza",
		"subscription_price": 9.99, "currency": "usd", "language": "pt",
		"avatar_url": "https://cdn.example.com/maria.png"}`
}

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h := NewHealthHandler("http://upstream.local")
	require.NoError(t, h.Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "http://upstream.local", body["upstreamBaseUrl"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestGetProfile_ProxiesUpstreamBody(t *testing.T) {
	srv := upstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(profileJSON()))
	})
	gw := profile.NewGateway(srv.URL, time.Second, logger.Default())
	h := NewProfileHandler(gw, logger.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/profile/:username")
	c.SetParamNames("username")
	c.SetParamValues("maria")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Fields the gateway does not model still reach the caller.
	assert.Equal(t, "https://cdn.example.com/maria.png", body["avatar_url"])
}

func TestGetProfile_NotFoundPassesUpstreamStatus(t *testing.T) {
	srv := upstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Profile not found"}`))
	})
	gw := profile.NewGateway(srv.URL, time.Second, logger.Default())
	h := NewProfileHandler(gw, logger.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/profile/:username")
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Profile not found", body.Error)
}

func TestGetSubscriptionPlans(t *testing.T) {
	srv := upstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})
	gw := profile.NewGateway(srv.URL, time.Second, logger.Default())
	h := NewProfileHandler(gw, logger.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/subscription-plans/:username")
	c.SetParamNames("username")
	c.SetParamValues("maria")

	require.NoError(t, h.GetSubscriptionPlans(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body models.SubscriptionPlansResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "maria", body.Profile.Username)
	assert.InDelta(t, 9.99, body.Profile.MonthlyPrice, 0.001)
	require.Len(t, body.Plans, 3)
	assert.Equal(t, "12-months", body.Plans[2].ID)
	assert.True(t, body.Plans[2].IsRecommended)
	assert.InDelta(t, 77.92, body.Plans[2].FinalPrice, 0.001)
}

func newCheckoutHandler(t *testing.T, proc checkout.ProcessorClient, upstream http.HandlerFunc) *CheckoutHandler {
	t.Helper()
	srv := upstreamServer(t, upstream)
	gw := profile.NewGateway(srv.URL, time.Second, logger.Default())
	svc := checkout.NewService(proc, gw, "https://pay.example.com", logger.Default())
	return NewCheckoutHandler(svc, logger.Default())
}

func TestCreateCheckoutSession(t *testing.T) {
	proc := &stubProcessor{session: &stripe.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.com/pay/cs_test_1",
	}}
	h := newCheckoutHandler(t, proc, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})

	e := echo.New()
	body := `{"username": "maria", "planId": "12-months", "customerEmail": "maria@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.CreateCheckoutSession(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", resp.URL)
}

func TestCreateCheckoutSession_MissingFields(t *testing.T) {
	h := newCheckoutHandler(t, &stubProcessor{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"username": "maria"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.CreateCheckoutSession(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCheckoutSession_UnknownPlan(t *testing.T) {
	h := newCheckoutHandler(t, &stubProcessor{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})

	e := echo.New()
	body := `{"username": "maria", "planId": "36-months"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.CreateCheckoutSession(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NormalizesAmount(t *testing.T) {
	proc := &stubProcessor{session: &stripe.CheckoutSession{
		ID:            "cs_test_2",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		CustomerEmail: "maria@example.com",
		AmountTotal:   7792,
		Currency:      stripe.CurrencyUSD,
		Created:       1700000000,
	}}
	h := newCheckoutHandler(t, proc, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/session/:session_id")
	c.SetParamNames("session_id")
	c.SetParamValues("cs_test_2")

	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary models.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.InDelta(t, 77.92, summary.Amount, 0.001)
	assert.Equal(t, int64(1700000000000), summary.CreatedAt)
	assert.Equal(t, "paid", summary.PaymentStatus)
}

func TestReloadCache(t *testing.T) {
	h := newCheckoutHandler(t, &stubProcessor{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileJSON()))
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/reload-cache", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ReloadCache(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	r := webhook.NewReconciler("whsec_test", nil, logger.Default())
	r.SetVerifyFunc(func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("no signatures found matching the expected signature for payload")
	})
	h := NewWebhookHandler(r, logger.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=tampered")
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Webhook Error: "))
	assert.Contains(t, rec.Body.String(), "no signatures found")
}

func TestHandleWebhook_VerifiedDeliveryAcked(t *testing.T) {
	raw, err := json.Marshal(map[string]any{"id": "cs_test_3", "amount_total": 999})
	require.NoError(t, err)

	r := webhook.NewReconciler("whsec_test", nil, logger.Default())
	r.SetVerifyFunc(func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		assert.Equal(t, `{"type":"checkout.session.completed"}`, string(payload))
		assert.Equal(t, "t=1,v1=good", sigHeader)
		return stripe.Event{
			ID:   "evt_1",
			Type: webhook.EventCheckoutCompleted,
			Data: &stripe.EventData{Raw: raw},
		}, nil
	})
	h := NewWebhookHandler(r, logger.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=good")
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}
