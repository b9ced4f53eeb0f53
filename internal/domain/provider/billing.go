package provider

import (
	"context"

	"github.com/onsiteclub/account-service/internal/domain/entity"
)

// BillingProvider is the capability surface consumed from the external
// billing provider. Session contents and webhook processing are the
// provider's concern.
type BillingProvider interface {
	// CreateCheckoutSession creates a provider-hosted checkout session and
	// returns its URL. The caller performs a terminal navigation to it.
	CreateCheckoutSession(ctx context.Context, req *CreateCheckoutSessionRequest) (*entity.CheckoutSession, error)

	// CreateBillingPortalSession opens the provider-hosted portal where an
	// existing customer manages their subscription.
	CreateBillingPortalSession(ctx context.Context, req *CreateBillingPortalSessionRequest) (*entity.PortalSession, error)
}

// CreateBillingPortalSessionRequest identifies the customer the portal is
// opened for and where the provider sends them back afterwards.
type CreateBillingPortalSessionRequest struct {
	CustomerID string
	ReturnURL  string
}

// CreateCheckoutSessionRequest carries everything the provider needs for
// one session. CustomerID is set when a billing customer already exists
// for the user, so a duplicate is not created.
type CreateCheckoutSessionRequest struct {
	App        string
	PriceID    string
	UserID     string
	UserEmail  string
	CustomerID string
	SuccessURL string
	CancelURL  string
}
