package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creatorpay/checkout/pkg/domain"
	"github.com/creatorpay/checkout/pkg/locale"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/models"
	"github.com/creatorpay/checkout/pkg/pricing"
	"github.com/creatorpay/checkout/pkg/profile"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
)

// ProfileFetcher abstracts the upstream profile gateway.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) (*profile.Profile, error)
}

// MetricsRecorder abstracts recording of checkout business metrics.
type MetricsRecorder interface {
	RecordCheckoutSession(plan string)
	RecordSessionLookup(outcome string)
}

// Service orchestrates checkout-session creation and session inquiry. It is
// stateless: every request refetches the profile and recomputes pricing.
type Service struct {
	processor     ProcessorClient
	profiles      ProfileFetcher
	publicBaseURL string
	log           logger.Logger
	metrics       MetricsRecorder
}

// NewService creates a checkout service. publicBaseURL is the base for the
// success and cancel redirects.
func NewService(processor ProcessorClient, profiles ProfileFetcher, publicBaseURL string, log logger.Logger) *Service {
	return &Service{
		processor:     processor,
		profiles:      profiles,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// SetMetricsRecorder sets the metrics recorder for business counters.
func (s *Service) SetMetricsRecorder(m MetricsRecorder) {
	s.metrics = m
}

// CreateSession builds and submits a single-line-item, one-time-payment
// checkout session for the requested plan and returns the redirect target.
// Profile gateway failures propagate unchanged so their status reaches the
// caller.
func (s *Service) CreateSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if req.Username == "" || req.PlanID == "" {
		return nil, domain.NewInvalidRequestError("username and planId are required")
	}

	term, ok := pricing.TermForPlanID(req.PlanID)
	if !ok {
		return nil, domain.NewInvalidRequestError(fmt.Sprintf("unknown plan: %s", req.PlanID))
	}

	prof, err := s.profiles.Fetch(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	loc := locale.Resolve(prof.Language)
	offer := pricing.ComputePlanPrices(prof.SubscriptionPrice, term)
	shortName := truncateDisplayName(prof.DisplayName)

	productName := fmt.Sprintf("%s %d %s - %s",
		loc.Strings.SubscriptionNoun, term, loc.MonthWord(term), prof.DisplayName)
	description := fmt.Sprintf("%s %s", loc.Strings.ExclusiveAccessPhrase, shortName)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		Locale:             stripe.String(loc.ProcessorLocale),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(prof.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(offer.FinalPriceMinorUnits),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/success?session_id={CHECKOUT_SESSION_ID}&lang=%s", s.publicBaseURL, loc.Language)),
		CancelURL: stripe.String(fmt.Sprintf("%s/%s", s.publicBaseURL, prof.Username)),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	// Metadata is the only durable linkage between the session and the
	// profile, so every key is always present even when empty.
	params.AddMetadata("profile_id", strconv.FormatInt(prof.ID, 10))
	params.AddMetadata("profile_username", prof.Username)
	params.AddMetadata("plan_months", strconv.Itoa(term))
	params.AddMetadata("customer_name", req.CustomerName)
	params.AddMetadata("customer_email", req.CustomerEmail)

	params.SetIdempotencyKey(uuid.NewString())

	sess, err := s.processor.CreateSession(ctx, params)
	if err != nil {
		s.log.Error("processor rejected checkout session",
			"username", req.Username, "plan", req.PlanID, "error", err)
		return nil, domain.NewPaymentProcessorError(processorMessage(err), err)
	}

	s.log.Info("checkout session created",
		"session_id", sess.ID, "username", prof.Username, "plan", req.PlanID,
		"amount_minor_units", offer.FinalPriceMinorUnits, "currency", prof.Currency)
	if s.metrics != nil {
		s.metrics.RecordCheckoutSession(req.PlanID)
	}

	return &models.CheckoutResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// GetSession retrieves a session and normalizes it: the amount is converted
// from minor to major units, the timestamp from epoch seconds to epoch
// milliseconds.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	sess, err := s.processor.GetSession(ctx, sessionID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSessionLookup("error")
		}
		return nil, domain.NewSessionLookupError(err)
	}
	if s.metrics != nil {
		s.metrics.RecordSessionLookup("success")
	}

	return &models.SessionSummary{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		CustomerEmail: sess.CustomerEmail,
		AmountTotal:   sess.AmountTotal,
		Amount:        float64(sess.AmountTotal) / 100,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
		TransactionID: sess.ID,
		CreatedAt:     sess.Created * 1000,
	}, nil
}

// truncateDisplayName keeps the first two space-separated tokens of a
// display name, or the full name when it has two or fewer.
func truncateDisplayName(fullName string) string {
	names := strings.Fields(fullName)
	if len(names) <= 2 {
		return strings.TrimSpace(fullName)
	}
	return names[0] + " " + names[1]
}

func processorMessage(err error) string {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return sErr.Msg
	}
	return ""
}
