package provider

import (
	"context"

	"github.com/onsiteclub/account-service/internal/domain/entity"
)

// IdentityProvider is the capability surface consumed from the external
// identity provider. Credential verification itself is the provider's
// concern; this service only orchestrates the calls and their outcomes.
type IdentityProvider interface {
	// SignIn verifies an email/password pair and returns the session pair
	// on success.
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)

	// SignUp registers a new account. Depending on provider settings the
	// result carries a user without a session (email confirmation pending)
	// or a user with a live session.
	SignUp(ctx context.Context, req *SignUpRequest) (*AuthResult, error)

	// ResetPassword sends a recovery email; the link returns to redirectTo.
	ResetPassword(ctx context.Context, email, redirectTo string) error

	// Resend re-sends a signup confirmation email.
	Resend(ctx context.Context, email, redirectTo string) error

	// GetUser resolves the user behind an access token.
	GetUser(ctx context.Context, accessToken string) (*entity.User, error)
}

// AuthResult is the outcome of a successful identity call.
type AuthResult struct {
	User    *entity.User
	Session *entity.SessionCredentials
}

// SignUpRequest carries the registration payload. Metadata travels opaque
// to the provider and ends up on the user record.
type SignUpRequest struct {
	Email           string
	Password        string
	Metadata        map[string]interface{}
	EmailRedirectTo string
}
