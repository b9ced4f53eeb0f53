package stripe

import (
	"context"

	"github.com/onsiteclub/account-service/internal/domain/entity"
	"github.com/onsiteclub/account-service/internal/domain/provider"
	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"go.uber.org/zap"
)

// Provider implements the billing capability surface with Stripe Checkout.
type Provider struct {
	logger *zap.Logger
}

// NewProvider creates a new Stripe billing provider. The global API key is
// set once at startup; this process holds a single Stripe account.
func NewProvider(secretKey string, logger *zap.Logger) *Provider {
	stripe.Key = secretKey
	return &Provider{logger: logger}
}

// CreateCheckoutSession creates a subscription-mode checkout session and
// returns its hosted URL.
func (p *Provider) CreateCheckoutSession(ctx context.Context, req *provider.CreateCheckoutSessionRequest) (*entity.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"app":     req.App,
				"user_id": req.UserID,
			},
		},
	}
	params.Context = ctx

	// Reusing the existing billing customer avoids a duplicate; otherwise
	// Stripe creates one from the email.
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(req.UserEmail)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		p.logger.Error("Error creating checkout session",
			zap.String("app", req.App),
			zap.Error(err))
		return nil, err
	}

	p.logger.Info("Checkout session created",
		zap.String("app", req.App),
		zap.String("session_id", s.ID))

	return &entity.CheckoutSession{URL: s.URL}, nil
}

// CreateBillingPortalSession opens the Stripe customer portal for an
// existing customer and returns its hosted URL.
func (p *Provider) CreateBillingPortalSession(ctx context.Context, req *provider.CreateBillingPortalSessionRequest) (*entity.PortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(req.ReturnURL),
	}
	params.Context = ctx

	s, err := portalsession.New(params)
	if err != nil {
		p.logger.Error("Error creating billing portal session",
			zap.String("customer_id", req.CustomerID),
			zap.Error(err))
		return nil, err
	}

	return &entity.PortalSession{URL: s.URL}, nil
}
