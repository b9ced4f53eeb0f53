package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/onsiteclub/account-service/internal/domain/entity"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/domain/provider"
	"github.com/onsiteclub/account-service/internal/usecase"
)

// MockIdentityProvider is a mock implementation of IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*provider.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AuthResult), args.Error(1)
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, req *provider.SignUpRequest) (*provider.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AuthResult), args.Error(1)
}

func (m *MockIdentityProvider) ResetPassword(ctx context.Context, email, redirectTo string) error {
	args := m.Called(ctx, email, redirectTo)
	return args.Error(0)
}

func (m *MockIdentityProvider) Resend(ctx context.Context, email, redirectTo string) error {
	args := m.Called(ctx, email, redirectTo)
	return args.Error(0)
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*entity.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func newAuthService(identity provider.IdentityProvider) *usecase.AuthService {
	cfg := testConfig()
	resolver := usecase.NewRedirectResolver(cfg.NativeSchemes())
	return usecase.NewAuthService(cfg, identity, resolver, zap.NewNop())
}

func authResult(withSession bool) *provider.AuthResult {
	result := &provider.AuthResult{
		User: &entity.User{ID: uuid.New(), Email: "worker@example.com"},
	}
	if withSession {
		result.Session = &entity.SessionCredentials{
			AccessToken:  "at-123",
			RefreshToken: "rt-456",
		}
	}
	return result
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("web hint redirects to the stored path", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignIn", ctx, "worker@example.com", "secret123").Return(authResult(true), nil)

		outcome, err := service.Login(ctx, "worker@example.com", "secret123", "/checkout/calculator")
		require.NoError(t, err)
		assert.False(t, outcome.Native)
		assert.Equal(t, "/checkout/calculator", outcome.RedirectURL)
	})

	t.Run("native hint hands the session off as a deep link", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignIn", ctx, "worker@example.com", "secret123").Return(authResult(true), nil)

		outcome, err := service.Login(ctx, "worker@example.com", "secret123", "onsitecalculator://auth/callback")
		require.NoError(t, err)
		assert.True(t, outcome.Native)
		assert.Equal(t, "onsitecalculator://auth/callback?access_token=at-123&refresh_token=rt-456", outcome.RedirectURL)
	})

	t.Run("off-origin hint collapses to the root", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignIn", ctx, "worker@example.com", "secret123").Return(authResult(true), nil)

		outcome, err := service.Login(ctx, "worker@example.com", "secret123", "https://evil.example/phish")
		require.NoError(t, err)
		assert.False(t, outcome.Native)
		assert.Equal(t, "/", outcome.RedirectURL)
	})

	t.Run("provider rejection is passed through", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		providerErr := &domainErrors.ProviderError{Status: 400, Message: "Invalid login credentials"}
		mockIdentity.On("SignIn", ctx, "worker@example.com", "wrong").Return(nil, providerErr)

		_, err := service.Login(ctx, "worker@example.com", "wrong", "")
		require.Error(t, err)
		pe, ok := domainErrors.AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, "Invalid login credentials", pe.Message)
	})

	t.Run("result without a session is a credentials failure", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignIn", ctx, "worker@example.com", "secret123").Return(authResult(false), nil)

		_, err := service.Login(ctx, "worker@example.com", "secret123", "")
		require.Error(t, err)
		_, ok := domainErrors.AsProviderError(err)
		assert.True(t, ok)
	})
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	params := &usecase.SignupParams{
		Email:        "worker@example.com",
		Password:     "secret123",
		FirstName:    "Ana",
		LastName:     "Silva",
		Trade:        "electrician",
		RedirectHint: "onsiteclub://auth/callback",
	}

	t.Run("confirmation pending goes to the verify page", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignUp", ctx, mock.MatchedBy(func(req *provider.SignUpRequest) bool {
			return req.Email == "worker@example.com" &&
				req.Metadata["first_name"] == "Ana" &&
				req.Metadata["trade"] == "electrician" &&
				req.EmailRedirectTo == "https://account.onsiteclub.ca/callback"
		})).Return(authResult(false), nil)

		outcome, err := service.Signup(ctx, params)
		require.NoError(t, err)
		assert.False(t, outcome.Native)
		assert.Equal(t, "/verify?email=worker%40example.com", outcome.RedirectURL)
	})

	t.Run("live session follows the same post-auth decision as login", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		service := newAuthService(mockIdentity)

		mockIdentity.On("SignUp", ctx, mock.Anything).Return(authResult(true), nil)

		outcome, err := service.Signup(ctx, params)
		require.NoError(t, err)
		assert.True(t, outcome.Native)
		assert.Equal(t, "onsiteclub://auth/callback?access_token=at-123&refresh_token=rt-456", outcome.RedirectURL)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	mockIdentity := new(MockIdentityProvider)
	service := newAuthService(mockIdentity)

	mockIdentity.On("ResetPassword", ctx, "worker@example.com",
		"https://account.onsiteclub.ca/callback?next=/update-password").Return(nil)

	require.NoError(t, service.ResetPassword(ctx, "worker@example.com"))
	mockIdentity.AssertExpectations(t)
}

func TestAuthService_ResendConfirmation(t *testing.T) {
	ctx := context.Background()
	mockIdentity := new(MockIdentityProvider)
	service := newAuthService(mockIdentity)

	mockIdentity.On("Resend", ctx, "worker@example.com",
		"https://account.onsiteclub.ca/callback").Return(nil)

	require.NoError(t, service.ResendConfirmation(ctx, "worker@example.com"))
	mockIdentity.AssertExpectations(t)
}

func TestFormatAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "known provider message is translated",
			err:  &domainErrors.ProviderError{Message: "Invalid login credentials"},
			want: "Email ou senha incorretos.",
		},
		{
			name: "unconfirmed email is translated",
			err:  &domainErrors.ProviderError{Message: "Email not confirmed"},
			want: "Confirme seu email antes de entrar.",
		},
		{
			name: "unknown provider message passes through",
			err:  &domainErrors.ProviderError{Message: "Signup disabled"},
			want: "Signup disabled",
		},
		{
			name: "non-provider error gets the generic message",
			err:  errors.New("connection refused"),
			want: "Ocorreu um erro. Tente novamente.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.FormatAuthError(tt.err))
		})
	}
}
