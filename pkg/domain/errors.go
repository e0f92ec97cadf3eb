package domain

import (
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code, a message safe
// to expose to callers, and the HTTP status the boundary should answer with.
type DomainError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeProfileNotFound     = "PROFILE_NOT_FOUND"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodePaymentProcessor    = "PAYMENT_PROCESSOR_ERROR"
	ErrCodeSessionLookup       = "SESSION_LOOKUP_ERROR"
	ErrCodeWebhookVerification = "WEBHOOK_VERIFICATION_FAILED"
)

// Error constructors

// NewInvalidRequestError creates an error for a malformed or incomplete request.
func NewInvalidRequestError(msg string) error {
	return &DomainError{
		Code:    ErrCodeInvalidRequest,
		Message: msg,
		Status:  http.StatusBadRequest,
	}
}

// NewProfileNotFoundError creates an error carrying the upstream's reported
// status and message. The status is passed through to our own callers.
func NewProfileNotFoundError(status int, msg string) error {
	if msg == "" {
		msg = "profile not found"
	}
	return &DomainError{
		Code:    ErrCodeProfileNotFound,
		Message: msg,
		Status:  status,
	}
}

// NewUpstreamUnavailableError creates an error for network failures or
// unstructured responses from the upstream profile service.
func NewUpstreamUnavailableError(status int, err error) error {
	if status < 500 {
		status = http.StatusBadGateway
	}
	return &DomainError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: "failed to reach the profile service",
		Status:  status,
		Err:     err,
	}
}

// NewPaymentProcessorError creates an error for a processor-rejected
// operation, surfacing the processor's own message.
func NewPaymentProcessorError(msg string, err error) error {
	if msg == "" {
		msg = "failed to create payment session"
	}
	return &DomainError{
		Code:    ErrCodePaymentProcessor,
		Message: msg,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewSessionLookupError creates an error for a failed session retrieval.
// Not-found and transient processor failures are deliberately not
// distinguished here.
func NewSessionLookupError(err error) error {
	return &DomainError{
		Code:    ErrCodeSessionLookup,
		Message: "failed to retrieve session",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewWebhookVerificationError creates an error for a failed webhook
// signature check.
func NewWebhookVerificationError(err error) error {
	return &DomainError{
		Code:    ErrCodeWebhookVerification,
		Message: "webhook signature verification failed",
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Helper functions to check error types

// IsInvalidRequest checks if the error is an invalid request error
func IsInvalidRequest(err error) bool {
	return codeOf(err) == ErrCodeInvalidRequest
}

// IsProfileNotFound checks if the error is a profile not found error
func IsProfileNotFound(err error) bool {
	return codeOf(err) == ErrCodeProfileNotFound
}

// IsUpstreamUnavailable checks if the error is an upstream unavailable error
func IsUpstreamUnavailable(err error) bool {
	return codeOf(err) == ErrCodeUpstreamUnavailable
}

// IsPaymentProcessorError checks if the error is a payment processor error
func IsPaymentProcessorError(err error) bool {
	return codeOf(err) == ErrCodePaymentProcessor
}

// IsWebhookVerificationError checks if the error is a webhook verification error
func IsWebhookVerificationError(err error) bool {
	return codeOf(err) == ErrCodeWebhookVerification
}

func codeOf(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

// HTTPStatus extracts the HTTP status a boundary should answer with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	if de, ok := err.(*DomainError); ok && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}
