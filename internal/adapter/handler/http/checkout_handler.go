package http

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/internal/domain/entity"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/domain/model"
	"github.com/onsiteclub/account-service/internal/domain/repository"
	"github.com/onsiteclub/account-service/internal/middleware/auth"
	"github.com/onsiteclub/account-service/internal/usecase"
	"go.uber.org/zap"
)

// CheckoutHandler serves the checkout entry point: gate first, then hand
// off to the billing provider. All three gate outcomes are redirects or a
// provider call, never errors.
type CheckoutHandler struct {
	cfg             *config.Config
	checkoutService *usecase.CheckoutService
	subscriptions   repository.SubscriptionRepository
	logger          *zap.Logger
}

func NewCheckoutHandler(cfg *config.Config, checkoutService *usecase.CheckoutService, subscriptions repository.SubscriptionRepository, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		cfg:             cfg,
		checkoutService: checkoutService,
		subscriptions:   subscriptions,
		logger:          logger,
	}
}

// Enter handles GET /checkout/:app.
func (h *CheckoutHandler) Enter(c echo.Context) error {
	appName := c.Param("app")
	appConfig := h.cfg.App(appName)
	if appConfig == nil {
		// Unknown apps fall back to the home page before anything else,
		// including authentication.
		return c.Redirect(http.StatusFound, "/")
	}

	user := auth.UserFromContext(c)

	// The subscription snapshot is read once and is valid for this one
	// gating decision only; it is not re-read before the provider call.
	var record *model.Subscription
	if user != nil {
		var err error
		record, err = h.subscriptions.GetByUserAndApp(c.Request().Context(), user.ID, appName)
		if err != nil {
			// A failed lookup is not "never subscribed"; surface it as a
			// recoverable failure instead of silently creating a possibly
			// duplicate billing customer.
			h.logger.Error("Subscription lookup failed",
				zap.String("user_id", user.ID.String()),
				zap.String("app", appName),
				zap.Error(err))
			return c.JSON(http.StatusBadGateway, h.checkoutService.ErrorState(appName))
		}
	}

	decision := usecase.Gate(appName, user, record)

	switch decision.Action {
	case entity.GateRequireLogin:
		return c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(decision.ReturnPath))

	case entity.GateRedirectToManage:
		return c.Redirect(http.StatusFound, "/manage?app="+url.QueryEscape(appName))
	}

	// Cancellation marker: an expected terminal state of the previous
	// attempt, shown with a fresh retry entry point.
	if c.QueryParam("canceled") == "true" {
		state, err := h.checkoutService.HandleCanceled(appName)
		if err != nil {
			return c.Redirect(http.StatusFound, "/")
		}
		return c.JSON(http.StatusOK, state)
	}

	session, err := h.checkoutService.CreateSession(c.Request().Context(), &entity.CheckoutRequest{
		App:                appName,
		UserID:             user.ID.String(),
		UserEmail:          user.Email,
		ExistingCustomerID: decision.ExistingCustomerID,
	})
	if err != nil {
		if ce, ok := domainErrors.AsCheckoutError(err); ok && ce.Kind == domainErrors.ErrKindInvalidApp {
			return c.JSON(http.StatusNotFound, h.checkoutService.ErrorState(appName))
		}
		return c.JSON(http.StatusBadGateway, h.checkoutService.ErrorState(appName))
	}

	// Terminal handoff to the provider-hosted page.
	return c.Redirect(http.StatusSeeOther, session.URL)
}

// Manage handles GET /manage/:app. It requires authentication; the route
// carries the non-optional token middleware.
func (h *CheckoutHandler) Manage(c echo.Context) error {
	appName := c.Param("app")
	if h.cfg.App(appName) == nil {
		return c.Redirect(http.StatusFound, "/")
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape("/manage/"+appName))
	}

	record, err := h.subscriptions.GetByUserAndApp(c.Request().Context(), user.ID, appName)
	if err != nil {
		h.logger.Error("Subscription lookup failed",
			zap.String("user_id", user.ID.String()),
			zap.String("app", appName),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, h.checkoutService.ErrorState(appName))
	}

	// Nothing to manage without a billing customer; checkout is the entry
	// point instead.
	if record == nil || record.StripeCustomerID == "" {
		return c.Redirect(http.StatusFound, "/checkout/"+appName)
	}

	session, err := h.checkoutService.PortalSession(c.Request().Context(), record.StripeCustomerID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, h.checkoutService.ErrorState(appName))
	}

	return c.Redirect(http.StatusSeeOther, session.URL)
}
