package usecase

import (
	"context"
	"net/url"

	"github.com/onsiteclub/account-service/internal/config"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/domain/provider"
	"go.uber.org/zap"
)

// authErrorMessages maps known identity-provider error strings to the
// copy shown to the user. Unknown messages pass through verbatim.
var authErrorMessages = map[string]string{
	"Invalid login credentials":                  "Email ou senha incorretos.",
	"Email not confirmed":                        "Confirme seu email antes de entrar.",
	"User already registered":                    "Este email já está cadastrado.",
	"Password should be at least 6 characters":   "A senha deve ter no mínimo 6 caracteres.",
	"Email rate limit exceeded":                  "Muitas tentativas. Aguarde alguns minutos.",
	"For security purposes, you can only request this after 60 seconds.": "Por segurança, aguarde 60 segundos antes de tentar novamente.",
}

// genericAuthError is shown when the call to the provider failed to
// complete at all.
const genericAuthError = "Ocorreu um erro. Tente novamente."

// FormatAuthError translates an identity-provider error into the message
// surfaced to the user.
func FormatAuthError(err error) string {
	if pe, ok := domainErrors.AsProviderError(err); ok {
		if msg, known := authErrorMessages[pe.Message]; known {
			return msg
		}
		return pe.Message
	}
	return genericAuthError
}

// AuthService orchestrates the identity-provider calls behind the login,
// signup, verify and reset-password entry points, and the post-auth
// redirect decision.
type AuthService struct {
	cfg      *config.Config
	identity provider.IdentityProvider
	resolver *RedirectResolver
	logger   *zap.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(cfg *config.Config, identity provider.IdentityProvider, resolver *RedirectResolver, logger *zap.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		identity: identity,
		resolver: resolver,
		logger:   logger,
	}
}

// AuthOutcome is the terminal result of one auth entry point: where the
// browser goes next. For native destinations RedirectURL is the deep link
// carrying the session pair, and following it is a one-way handoff.
type AuthOutcome struct {
	RedirectURL string `json:"redirect_url"`
	Native      bool   `json:"native"`
}

// Login verifies credentials and decides the post-login destination from
// the stored hint. The hint is resolved exactly once.
func (s *AuthService) Login(ctx context.Context, email, password, redirectHint string) (*AuthOutcome, error) {
	result, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.Session == nil {
		return nil, &domainErrors.ProviderError{Message: "Invalid login credentials"}
	}
	return s.outcome(redirectHint, result), nil
}

// SignupParams carries the registration form payload, already
// field-validated by the entry point.
type SignupParams struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Trade        string
	RedirectHint string
}

// Signup registers the account. When the provider requires email
// confirmation the outcome points at the verify page; when it returns a
// live session the outcome is the same post-auth decision as login.
func (s *AuthService) Signup(ctx context.Context, params *SignupParams) (*AuthOutcome, error) {
	result, err := s.identity.SignUp(ctx, &provider.SignUpRequest{
		Email:    params.Email,
		Password: params.Password,
		Metadata: map[string]interface{}{
			"first_name": params.FirstName,
			"last_name":  params.LastName,
			"trade":      params.Trade,
		},
		EmailRedirectTo: s.cfg.Service.BaseURL + "/callback",
	})
	if err != nil {
		return nil, err
	}

	if result.Session == nil {
		// Confirmation pending: send the user to the verify page with the
		// email prefilled for resending.
		return &AuthOutcome{
			RedirectURL: "/verify?email=" + url.QueryEscape(params.Email),
		}, nil
	}

	return s.outcome(params.RedirectHint, result), nil
}

// ResetPassword sends the recovery email; its link lands on the callback
// with the update-password page as the next hop.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	return s.identity.ResetPassword(ctx, email, s.cfg.Service.BaseURL+"/callback?next=/update-password")
}

// ResendConfirmation re-sends the signup confirmation email.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	return s.identity.Resend(ctx, email, s.cfg.Service.BaseURL+"/callback")
}

// outcome turns a successful identity result into the terminal redirect:
// a native deep link with the session pair appended, or a same-origin
// path.
func (s *AuthService) outcome(redirectHint string, result *provider.AuthResult) *AuthOutcome {
	dest := s.resolver.Resolve(redirectHint)
	if dest.IsNative() && result.Session != nil {
		callbackURL := BuildCallbackURL(dest, *result.Session)
		s.logger.Info("Handing session off to native app",
			zap.String("scheme", dest.Scheme))
		return &AuthOutcome{RedirectURL: callbackURL, Native: true}
	}
	return &AuthOutcome{RedirectURL: dest.Path}
}
