package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/usecase"
	"go.uber.org/zap"
)

// AuthHandler serves the login, signup, verify and reset-password entry
// points. Field validation happens here, before any provider call; a
// validation failure never reaches the identity provider.
type AuthHandler struct {
	authService *usecase.AuthService
	guard       *usecase.InflightGuard
	logger      *zap.Logger
}

func NewAuthHandler(authService *usecase.AuthService, guard *usecase.InflightGuard, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guard:       guard,
		logger:      logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Redirect string `json:"redirect"`
}

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Trade           string `json:"trade" validate:"omitempty,oneof=general_contractor carpenter electrician plumber hvac painter roofer mason welder heavy_equipment laborer supervisor project_manager estimator other"`
	Redirect        string `json:"redirect"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// fieldMessages holds the inline copy for each failed field.
var fieldMessages = map[string]string{
	"Email":           "Email inválido.",
	"Password":        "A senha deve ter no mínimo 6 caracteres.",
	"ConfirmPassword": "As senhas não coincidem.",
	"FirstName":       "Nome é obrigatório.",
	"LastName":        "Sobrenome é obrigatório.",
	"Trade":           "Profissão inválida.",
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if msg, ok := fieldMessages[fe.Field()]; ok {
				out[fe.Field()] = msg
			} else {
				out[fe.Field()] = "Campo inválido."
			}
		}
	}
	return out
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"field_errors": fieldErrors(err)})
	}

	if err := h.guard.Begin("login:" + req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Request already in flight"})
	}
	defer h.guard.End("login:" + req.Email)

	outcome, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.Redirect)
	if err != nil {
		return h.authError(c, "Login", err)
	}

	return c.JSON(http.StatusOK, outcome)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"field_errors": fieldErrors(err)})
	}

	if err := h.guard.Begin("signup:" + req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Request already in flight"})
	}
	defer h.guard.End("signup:" + req.Email)

	outcome, err := h.authService.Signup(c.Request().Context(), &usecase.SignupParams{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Trade:        req.Trade,
		RedirectHint: req.Redirect,
	})
	if err != nil {
		return h.authError(c, "Signup", err)
	}

	return c.JSON(http.StatusOK, outcome)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"field_errors": fieldErrors(err)})
	}

	if err := h.guard.Begin("reset:" + req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Request already in flight"})
	}
	defer h.guard.End("reset:" + req.Email)

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return h.authError(c, "Reset password", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

func (h *AuthHandler) Resend(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"field_errors": fieldErrors(err)})
	}

	if err := h.guard.Begin("resend:" + req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Request already in flight"})
	}
	defer h.guard.End("resend:" + req.Email)

	if err := h.authService.ResendConfirmation(c.Request().Context(), req.Email); err != nil {
		return h.authError(c, "Resend", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

// authError maps a failed provider call to its terminal response: the
// provider's own message (formatted) for rejections, a generic retry
// prompt when the call never completed. Nothing propagates uncaught.
func (h *AuthHandler) authError(c echo.Context, action string, err error) error {
	if _, ok := domainErrors.AsProviderError(err); ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": usecase.FormatAuthError(err)})
	}

	h.logger.Error(action+" failed", zap.Error(err))
	return c.JSON(http.StatusBadGateway, echo.Map{"error": usecase.FormatAuthError(err)})
}
