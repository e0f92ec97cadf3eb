package checkout

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ProcessorClient abstracts the payment processor operations the service
// needs, so tests can substitute a fake for the Stripe SDK.
type ProcessorClient interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// StripeClient implements ProcessorClient against the Stripe API. It is an
// explicitly constructed handle, not the SDK's global client, so each
// component receives its own injected instance.
type StripeClient struct {
	api *client.API
}

// NewStripeClient creates a Stripe client with a bounded per-call timeout.
func NewStripeClient(secretKey string, timeout time.Duration) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))
	return &StripeClient{api: api}
}

// CreateSession creates a hosted checkout session.
func (c *StripeClient) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return c.api.CheckoutSessions.New(params)
}

// GetSession retrieves a checkout session by its opaque identifier.
func (c *StripeClient) GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return c.api.CheckoutSessions.Get(id, params)
}
