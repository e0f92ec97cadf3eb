package webhook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
)

// Event kinds dispatched on. Anything else is acknowledged as unhandled.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// VerifyFunc verifies a raw webhook payload against its signature header and
// the shared secret. Production uses the Stripe SDK's verifier; tests inject
// their own.
type VerifyFunc func(payload []byte, sigHeader, secret string) (stripe.Event, error)

// PaymentConfirmation carries the data the completion hook must receive:
// the session, the paying customer, and the profile linkage from metadata.
type PaymentConfirmation struct {
	SessionID       string
	CustomerEmail   string
	Amount          float64
	Currency        string
	ProfileUsername string
	PlanMonths      string
}

// CompletionNotifier is the dispatch hook for confirmed payments.
type CompletionNotifier interface {
	PaymentConfirmed(ctx context.Context, conf PaymentConfirmation) error
}

// MetricsRecorder abstracts recording of webhook event outcomes.
type MetricsRecorder interface {
	RecordWebhookEvent(eventType, outcome string)
}

// Reconciler validates inbound processor events and dispatches them by kind.
// An event moves Received -> Verified -> Dispatched; a failed signature check
// stops it at Received and is the only error surfaced to the processor.
type Reconciler struct {
	secret   string
	verify   VerifyFunc
	notifier CompletionNotifier
	log      logger.Logger
	metrics  MetricsRecorder
	seen     *dedupSet
}

// NewReconciler creates a reconciler verifying against webhookSecret.
// notifier may be nil, in which case confirmed payments are only logged.
func NewReconciler(webhookSecret string, notifier CompletionNotifier, log logger.Logger) *Reconciler {
	return &Reconciler{
		secret: webhookSecret,
		verify: func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
			return stripewebhook.ConstructEvent(payload, sigHeader, secret)
		},
		notifier: notifier,
		log:      log,
		seen:     newDedupSet(24 * time.Hour),
	}
}

// SetVerifyFunc replaces the signature verifier.
func (r *Reconciler) SetVerifyFunc(v VerifyFunc) {
	r.verify = v
}

// SetMetricsRecorder sets the metrics recorder for event outcomes.
func (r *Reconciler) SetMetricsRecorder(m MetricsRecorder) {
	r.metrics = m
}

// Handle verifies one delivery and dispatches it. A returned error always
// means verification failed and the processor should retry; business-logic
// failures after verification are logged and acknowledged, never retried.
func (r *Reconciler) Handle(ctx context.Context, payload []byte, signature string) error {
	event, err := r.verify(payload, signature, r.secret)
	if err != nil {
		r.record("unknown", "verification_failed")
		return domain.NewWebhookVerificationError(err)
	}

	eventType := string(event.Type)
	r.log.Info("webhook received", "type", eventType, "event_id", event.ID)

	switch eventType {
	case EventCheckoutCompleted:
		r.handleCheckoutCompleted(ctx, event)
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		r.handleSubscriptionEvent(event, eventType)
	default:
		r.log.Info("unhandled webhook event type", "type", eventType)
		r.record(eventType, "unhandled")
	}

	return nil
}

func (r *Reconciler) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		r.log.Error("failed to unmarshal completed session", "event_id", event.ID, "error", err)
		r.record(EventCheckoutCompleted, "malformed")
		return
	}

	// Delivery is at-least-once; the completion hook fires once per session.
	if !r.seen.Add(sess.ID) {
		r.log.Info("duplicate completion delivery ignored", "session_id", sess.ID)
		r.record(EventCheckoutCompleted, "duplicate")
		return
	}

	conf := PaymentConfirmation{
		SessionID:       sess.ID,
		CustomerEmail:   sess.CustomerEmail,
		Amount:          float64(sess.AmountTotal) / 100,
		Currency:        string(sess.Currency),
		ProfileUsername: sess.Metadata["profile_username"],
		PlanMonths:      sess.Metadata["plan_months"],
	}

	r.log.Info("payment confirmed",
		"session_id", conf.SessionID,
		"customer_email", conf.CustomerEmail,
		"amount", conf.Amount,
		"currency", conf.Currency,
		"profile_username", conf.ProfileUsername)

	if r.notifier != nil {
		if err := r.notifier.PaymentConfirmed(ctx, conf); err != nil {
			// The ack must not fail for business-logic errors; the processor
			// only retries transport and signature failures.
			r.log.Error("completion notification failed", "session_id", conf.SessionID, "error", err)
		}
	}

	r.record(EventCheckoutCompleted, "dispatched")
}

func (r *Reconciler) handleSubscriptionEvent(event stripe.Event, eventType string) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		r.log.Error("failed to unmarshal subscription", "event_id", event.ID, "error", err)
		r.record(eventType, "malformed")
		return
	}

	r.log.Info("subscription event acknowledged",
		"type", eventType, "subscription_id", sub.ID, "status", string(sub.Status))
	r.record(eventType, "acknowledged")
}

func (r *Reconciler) record(eventType, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordWebhookEvent(eventType, outcome)
	}
}

// dedupSet remembers session ids for a TTL window. In-process only: the
// system holds no persistent state, so this is the strongest idempotency
// guard available without a store.
type dedupSet struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func newDedupSet(ttl time.Duration) *dedupSet {
	return &dedupSet{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

// Add records an id, returning false when it was already present within the
// TTL window.
func (d *dedupSet) Add(id string) bool {
	if id == "" {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for k, at := range d.entries {
		if now.Sub(at) > d.ttl {
			delete(d.entries, k)
		}
	}

	if _, dup := d.entries[id]; dup {
		return false
	}
	d.entries[id] = now
	return true
}
