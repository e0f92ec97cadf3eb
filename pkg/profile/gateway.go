package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/logger"
)

// Defaults applied when the upstream omits pricing or locale configuration.
const (
	DefaultMonthlyPrice = 9.99
	DefaultCurrency     = "usd"
	DefaultLanguage     = "en"
)

// Profile is a creator profile as served by the upstream profile service.
// Read-only here; the upstream is the system of record.
type Profile struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	DisplayName       string  `json:"display_name"`
	SubscriptionPrice float64 `json:"subscription_price"`
	Currency          string  `json:"currency"`
	Language          string  `json:"language"`

	// Raw is the upstream's response body as received, so callers that
	// proxy the profile can forward fields this struct does not model.
	Raw json.RawMessage `json:"-"`
}

// upstreamError is the structured error body the upstream attaches to
// client-error responses.
type upstreamError struct {
	Error string `json:"error"`
}

// MetricsRecorder abstracts recording of profile fetch outcomes.
type MetricsRecorder interface {
	RecordProfileFetch(outcome string, duration time.Duration)
}

// Gateway fetches creator profiles from the upstream service and normalizes
// its errors into the domain taxonomy.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
	metrics    MetricsRecorder
}

// NewGateway creates a gateway against the upstream base URL with a bounded
// per-request timeout.
func NewGateway(baseURL string, timeout time.Duration, log logger.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SetMetricsRecorder sets the metrics recorder for fetch outcomes.
func (g *Gateway) SetMetricsRecorder(m MetricsRecorder) {
	g.metrics = m
}

// Fetch retrieves a profile by username. Structured upstream errors keep
// their reported HTTP status; network failures and unstructured responses
// become a synthesized 500-class failure.
func (g *Gateway) Fetch(ctx context.Context, username string) (*Profile, error) {
	start := time.Now()
	p, err := g.fetch(ctx, username)
	g.record(err, time.Since(start))
	return p, err
}

func (g *Gateway) fetch(ctx context.Context, username string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/api/profile/%s", g.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewUpstreamUnavailableError(0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Error("profile fetch failed", "username", username, "error", err)
		return nil, domain.NewUpstreamUnavailableError(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamUnavailableError(0, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var ue upstreamError
		if jsonErr := json.Unmarshal(body, &ue); jsonErr == nil && ue.Error != "" {
			// Structured error: pass the upstream's status through so our
			// own callers see the same failure the upstream reported.
			g.log.Warn("upstream rejected profile lookup",
				"username", username, "status", resp.StatusCode, "upstream_error", ue.Error)
			return nil, domain.NewProfileNotFoundError(resp.StatusCode, ue.Error)
		}
		g.log.Error("unstructured upstream failure",
			"username", username, "status", resp.StatusCode)
		return nil, domain.NewUpstreamUnavailableError(resp.StatusCode,
			fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, domain.NewUpstreamUnavailableError(0, fmt.Errorf("failed to decode profile: %w", err))
	}
	p.Raw = body

	applyDefaults(&p)
	return &p, nil
}

func (g *Gateway) record(err error, d time.Duration) {
	if g.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case domain.IsProfileNotFound(err):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	g.metrics.RecordProfileFetch(outcome, d)
}

func applyDefaults(p *Profile) {
	if p.SubscriptionPrice <= 0 {
		p.SubscriptionPrice = DefaultMonthlyPrice
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	p.Currency = strings.ToLower(p.Currency)
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
}
