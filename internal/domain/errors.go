package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrGigNotFound signals a missing or deleted gig.
	ErrGigNotFound = errors.New("gig not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals malformed input. Use NewValidation for a client-safe message.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized signals a missing or malformed session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadCredentials signals an unknown email or a wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrTokenExpired signals an expired session token.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid signals a session token that failed verification.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrForbidden signals an operation on a resource the caller does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrProfileIncomplete signals a seller without profile info.
	ErrProfileIncomplete = errors.New("profile info not set")
	// ErrEmailNotConfirmed signals a seller with an unconfirmed email.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	// ErrGigLimitReached signals a seller at the active gig cap.
	ErrGigLimitReached = errors.New("gig limit reached")
	// ErrOutstandingOrders signals a gig whose orders block editing.
	ErrOutstandingOrders = errors.New("gig has outstanding orders")
	// ErrReviewNotAllowed signals a review without a completed order.
	ErrReviewNotAllowed = errors.New("review requires a completed order")

	// ErrAssistantQuotaExceeded signals an exhausted language model budget.
	ErrAssistantQuotaExceeded = errors.New("assistant quota exceeded")
	// ErrAssistantProviderError signals a language model provider failure.
	ErrAssistantProviderError = errors.New("assistant provider error")
)

// ValidationError wraps ErrValidation with a message that is safe to show to clients.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a validation error with a client-facing message.
func NewValidation(msg string) error {
	return &ValidationError{Msg: msg}
}

// NewValidationf is NewValidation with formatting.
func NewValidationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RuleError attaches a client-facing message to a business rule sentinel.
type RuleError struct {
	Msg string
	Err error
}

func (e *RuleError) Error() string { return e.Err.Error() + ": " + e.Msg }

func (e *RuleError) Unwrap() error { return e.Err }

// NewRule wraps sentinel with a message that is safe to show to clients.
func NewRule(sentinel error, msg string) error {
	return &RuleError{Msg: msg, Err: sentinel}
}
