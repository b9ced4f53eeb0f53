package entity

import "github.com/google/uuid"

// User is the authenticated identity attached to a request, as extracted
// from the Supabase access token.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// GateAction is the three-way branch computed before checkout.
type GateAction string

const (
	GateRequireLogin      GateAction = "require_login"
	GateRedirectToManage  GateAction = "redirect_to_manage"
	GateProceedToCheckout GateAction = "proceed_to_checkout"
)

// GateDecision is the outcome of gating one checkout attempt. None of its
// variants is an error; all three always result in a redirect or a
// provider call.
type GateDecision struct {
	Action GateAction
	// ReturnPath carries the original checkout path when login is required,
	// fed back through redirect resolution after authentication.
	ReturnPath string
	// ExistingCustomerID reuses the billing customer already attached to a
	// prior (non-active) subscription instead of creating a duplicate.
	ExistingCustomerID string
}
