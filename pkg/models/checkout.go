package models

import "github.com/creatorpay/checkout/pkg/pricing"

// CheckoutRequest represents a request to create a checkout session.
// PlanID is validated against the known plan set; unknown plans are
// rejected rather than silently defaulted.
type CheckoutRequest struct {
	Username      string `json:"username" validate:"required"`
	PlanID        string `json:"planId" validate:"required,oneof=1-month 6-months 12-months"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerName  string `json:"customerName"`
}

// CheckoutResponse carries the processor session id and the hosted page the
// caller redirects to.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// SessionSummary is a normalized view of a processor checkout session.
// Amount is the total in major units; CreatedAt is epoch milliseconds.
type SessionSummary struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	CustomerEmail string            `json:"customer_email"`
	AmountTotal   int64             `json:"amount_total"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
	TransactionID string            `json:"transactionId"`
	CreatedAt     int64             `json:"createdAt"`
}

// PlansProfile is the profile slice embedded in the subscription-plans
// response.
type PlansProfile struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	DisplayName  string  `json:"display_name"`
	MonthlyPrice float64 `json:"monthly_price"`
}

// SubscriptionPlansResponse lists the three offers for a profile.
type SubscriptionPlansResponse struct {
	Profile PlansProfile        `json:"profile"`
	Plans   []pricing.PlanOffer `json:"plans"`
}

// ErrorResponse is the structured error body for all JSON error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WebhookAck acknowledges a verified webhook delivery.
type WebhookAck struct {
	Received bool `json:"received"`
}
