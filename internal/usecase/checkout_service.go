package usecase

import (
	"context"
	"fmt"

	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/internal/domain/entity"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	canceledMessage = "Você cancelou o processo de pagamento. Quando estiver pronto, clique abaixo para tentar novamente."
	errorMessage    = "Ocorreu um erro ao iniciar o pagamento. Por favor, tente novamente."
)

// CheckoutService creates billing-provider checkout sessions for gated
// requests and turns every failure into a recoverable page state.
type CheckoutService struct {
	cfg     *config.Config
	billing provider.BillingProvider
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service instance
func NewCheckoutService(cfg *config.Config, billing provider.BillingProvider, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		cfg:     cfg,
		billing: billing,
		logger:  logger,
	}
}

// CreateSession delegates session creation to the billing provider and
// returns the provider-hosted URL. The caller performs a terminal
// navigation to it. Failures come back as CheckoutError, never silently.
func (s *CheckoutService) CreateSession(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	app := s.cfg.App(req.App)
	if app == nil {
		return nil, domainErrors.NewInvalidAppError(req.App, "app is not part of the configured set")
	}
	if app.StripePriceID == "" {
		return nil, domainErrors.NewInvalidAppError(req.App, "app config has no price id")
	}

	session, err := s.billing.CreateCheckoutSession(ctx, &provider.CreateCheckoutSessionRequest{
		App:        app.Name,
		PriceID:    app.StripePriceID,
		UserID:     req.UserID,
		UserEmail:  req.UserEmail,
		CustomerID: req.ExistingCustomerID,
		SuccessURL: fmt.Sprintf("%s/checkout/success?app=%s&session_id={CHECKOUT_SESSION_ID}", s.cfg.Service.BaseURL, app.Name),
		CancelURL:  fmt.Sprintf("%s/checkout/%s?canceled=true", s.cfg.Service.BaseURL, app.Name),
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("app", app.Name),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return nil, domainErrors.NewProviderFailureError(app.Name, err)
	}

	s.logger.Info("Checkout session created",
		zap.String("app", app.Name),
		zap.String("user_id", req.UserID))

	return session, nil
}

// PortalSession opens the billing portal for an existing customer. The
// provider sends the user back to the manage page when they are done.
func (s *CheckoutService) PortalSession(ctx context.Context, customerID string) (*entity.PortalSession, error) {
	session, err := s.billing.CreateBillingPortalSession(ctx, &provider.CreateBillingPortalSessionRequest{
		CustomerID: customerID,
		ReturnURL:  s.cfg.Service.BaseURL + "/manage",
	})
	if err != nil {
		s.logger.Error("Failed to create billing portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, err
	}
	return session, nil
}

// HandleCanceled builds the page state shown when the user aborts at the
// provider and comes back with the cancellation marker. This is an
// expected terminal state of one attempt, not an error; the retry entry
// point starts a fresh session.
func (s *CheckoutService) HandleCanceled(appName string) (*entity.RetryableState, error) {
	app := s.cfg.App(appName)
	if app == nil {
		return nil, domainErrors.NewInvalidAppError(appName, "app is not part of the configured set")
	}
	return &entity.RetryableState{
		State:        "canceled",
		App:          app.Name,
		DisplayName:  app.DisplayName,
		Message:      canceledMessage,
		RetryURL:     "/checkout/" + app.Name,
		MonthlyPrice: app.MonthlyPrice.StringFixed(2),
	}, nil
}

// ErrorState builds the page state for a failed session creation, always
// offering a retry.
func (s *CheckoutService) ErrorState(appName string) *entity.RetryableState {
	displayName := appName
	if app := s.cfg.App(appName); app != nil {
		displayName = app.DisplayName
	}
	return &entity.RetryableState{
		State:       "error",
		App:         appName,
		DisplayName: displayName,
		Message:     errorMessage,
		RetryURL:    "/checkout/" + appName,
	}
}
