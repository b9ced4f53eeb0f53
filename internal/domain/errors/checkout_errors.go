package errors

import (
	"errors"
	"fmt"
)

// Checkout error kinds. Both always degrade to a page state offering
// retry, never to a dead end.
const (
	ErrKindInvalidApp      = "INVALID_APP"
	ErrKindProviderFailure = "PROVIDER_FAILURE"
)

// CheckoutError describes why a checkout session could not be created.
type CheckoutError struct {
	Kind    string
	App     string
	Message string
	Cause   error
}

func (e *CheckoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (app: %s) - %v", e.Kind, e.Message, e.App, e.Cause)
	}
	return fmt.Sprintf("%s: %s (app: %s)", e.Kind, e.Message, e.App)
}

func (e *CheckoutError) Unwrap() error {
	return e.Cause
}

// NewInvalidAppError flags an app identifier outside the closed set or an
// incomplete app config (e.g. missing price id).
func NewInvalidAppError(app, message string) *CheckoutError {
	return &CheckoutError{
		Kind:    ErrKindInvalidApp,
		App:     app,
		Message: message,
	}
}

// NewProviderFailureError flags a billing provider that rejected the
// session or could not be reached.
func NewProviderFailureError(app string, cause error) *CheckoutError {
	return &CheckoutError{
		Kind:    ErrKindProviderFailure,
		App:     app,
		Message: "billing provider failed to create checkout session",
		Cause:   cause,
	}
}

// AsCheckoutError unwraps err into a CheckoutError when possible.
func AsCheckoutError(err error) (*CheckoutError, bool) {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
