package http

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/internal/domain/entity"
	"github.com/onsiteclub/account-service/internal/usecase"
	"go.uber.org/zap"
)

// ReturnHandler serves the post-payment success page: its initial state
// and the server-driven countdown stream behind the auto-redirect.
type ReturnHandler struct {
	cfg      *config.Config
	resolver *usecase.RedirectResolver
	logger   *zap.Logger
}

func NewReturnHandler(cfg *config.Config, resolver *usecase.RedirectResolver, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
	}
}

// state resolves the return destination for one success-page request. The
// hint is resolved once; without a hint the flow returns into the app the
// user just paid for, via its registered scheme.
func (h *ReturnHandler) state(c echo.Context) (*entity.ReturnState, *config.AppConfig) {
	appConfig := h.cfg.App(c.QueryParam("app"))
	if appConfig == nil {
		return nil, nil
	}

	hint := c.QueryParam("redirect")
	if hint == "" {
		hint = appConfig.NativeScheme + "://payment-success"
	}
	dest := h.resolver.Resolve(hint)

	return &entity.ReturnState{
		Countdown:   usecase.DefaultCountdown,
		Destination: dest,
		App:         appConfig.Name,
		DisplayName: appConfig.DisplayName,
		Mobile:      appConfig.Mobile,
	}, appConfig
}

// Success handles GET /checkout/success.
func (h *ReturnHandler) Success(c echo.Context) error {
	state, _ := h.state(c)
	if state == nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.JSON(http.StatusOK, state)
}

// Events handles GET /checkout/success/events: a server-sent-event stream
// driven by the return-flow state machine. One countdown event per tick,
// then a single terminal redirect event. Client disconnect tears the flow
// down and discards the pending tick.
func (h *ReturnHandler) Events(c echo.Context) error {
	state, _ := h.state(c)
	if state == nil {
		return c.Redirect(http.StatusFound, "/")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	var writeMu sync.Mutex
	write := func(event, data string) {
		writeMu.Lock()
		defer writeMu.Unlock()
		fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data)
		res.Flush()
	}

	done := make(chan struct{})

	flow := usecase.NewReturnFlow(state.Destination,
		func(dest entity.Destination) {
			write("redirect", dest.URL())
			close(done)
		},
		usecase.WithCelebration(func() {
			write("celebrate", "confetti")
		}),
		usecase.WithTickObserver(func(remaining int) {
			write("countdown", fmt.Sprintf("%d", remaining))
		}),
	)

	ctx := c.Request().Context()
	write("countdown", fmt.Sprintf("%d", state.Countdown))
	flow.Start(ctx)

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
