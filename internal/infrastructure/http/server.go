package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/onsiteclub/account-service/internal/adapter/handler/http"
	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/internal/infrastructure/database"
	stripeprovider "github.com/onsiteclub/account-service/internal/infrastructure/provider/stripe"
	"github.com/onsiteclub/account-service/internal/infrastructure/provider/supabase"
	"github.com/onsiteclub/account-service/internal/middleware/auth"
	"github.com/onsiteclub/account-service/internal/usecase"
	"github.com/onsiteclub/account-service/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

// CustomValidator wires go-playground/validator into echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.BaseURL},
		AllowMethods: []string{echo.GET, echo.POST},
	}))
	logger.WithEchoErrorHandler(e, log)

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "account",
		})
	})

	// Providers and core services
	identity := supabase.NewClient(s.config.Service.Supabase.ProjectURL, s.config.Service.Supabase.APIKey, s.logger)
	billing := stripeprovider.NewProvider(s.config.Service.Stripe.SecretKey, s.logger)
	resolver := usecase.NewRedirectResolver(s.config.NativeSchemes())
	guard := usecase.NewInflightGuard()

	authService := usecase.NewAuthService(s.config, identity, resolver, s.logger)
	checkoutService := usecase.NewCheckoutService(s.config, billing, s.logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, guard, s.logger)
	checkoutHandler := handlers.NewCheckoutHandler(s.config, checkoutService, s.repos.Subscription, s.logger)
	returnHandler := handlers.NewReturnHandler(s.config, resolver, s.logger)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.Supabase.JWTSecret,
		Logger: s.logger,
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Auth entry points (anonymous by nature)
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/resend", authHandler.Resend)

	// Checkout entry point gates on identity instead of rejecting, so the
	// token is optional here.
	v1.GET("/checkout/:app", checkoutHandler.Enter, auth.OptionalJWTMiddleware(jwtConfig))

	// Subscription management requires a live session outright.
	v1.GET("/manage/:app", checkoutHandler.Manage, auth.JWTMiddleware(jwtConfig))

	// Post-payment return flow
	v1.GET("/checkout/success", returnHandler.Success)
	v1.GET("/checkout/success/events", returnHandler.Events)
}
