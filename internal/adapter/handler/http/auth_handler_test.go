package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	handler "github.com/onsiteclub/account-service/internal/adapter/handler/http"
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

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newAuthEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func newAuthHandler(identity provider.IdentityProvider) *handler.AuthHandler {
	cfg := testConfig()
	resolver := usecase.NewRedirectResolver(cfg.NativeSchemes())
	service := usecase.NewAuthService(cfg, identity, resolver, zap.NewNop())
	return handler.NewAuthHandler(service, usecase.NewInflightGuard(), zap.NewNop())
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionResult() *provider.AuthResult {
	return &provider.AuthResult{
		User: &entity.User{ID: uuid.New(), Email: "worker@example.com"},
		Session: &entity.SessionCredentials{
			AccessToken:  "at-123",
			RefreshToken: "rt-456",
		},
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newAuthEcho()

	t.Run("successful login returns the redirect outcome", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		mockIdentity.On("SignIn", mock.Anything, "worker@example.com", "secret123").
			Return(sessionResult(), nil)

		c, rec := postJSON(e, "/api/v1/auth/login",
			`{"email":"worker@example.com","password":"secret123","redirect":"/checkout/calculator"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"redirect_url":"/checkout/calculator"`)
	})

	t.Run("native redirect carries the session deep link", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		mockIdentity.On("SignIn", mock.Anything, "worker@example.com", "secret123").
			Return(sessionResult(), nil)

		c, rec := postJSON(e, "/api/v1/auth/login",
			`{"email":"worker@example.com","password":"secret123","redirect":"onsitecalculator://auth/callback"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"native":true`)
		assert.Contains(t, rec.Body.String(), "onsitecalculator://auth/callback?access_token=at-123")
	})

	t.Run("invalid email fails field validation before the provider", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		c, rec := postJSON(e, "/api/v1/auth/login", `{"email":"not-an-email","password":"secret123"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "field_errors")
		mockIdentity.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected credentials map to the formatted message", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		mockIdentity.On("SignIn", mock.Anything, "worker@example.com", "wrong").
			Return(nil, &domainErrors.ProviderError{Status: 400, Message: "Invalid login credentials"})

		c, rec := postJSON(e, "/api/v1/auth/login",
			`{"email":"worker@example.com","password":"wrong"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email ou senha incorretos.")
	})

	t.Run("unreachable provider maps to a gateway error", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		mockIdentity.On("SignIn", mock.Anything, "worker@example.com", "secret123").
			Return(nil, domainErrors.ErrIdentityUnavailable)

		c, rec := postJSON(e, "/api/v1/auth/login",
			`{"email":"worker@example.com","password":"secret123"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Ocorreu um erro. Tente novamente.")
	})
}

func TestAuthHandler_Signup(t *testing.T) {
	e := newAuthEcho()

	validBody := `{"email":"worker@example.com","password":"secret123","confirm_password":"secret123","first_name":"Ana","last_name":"Silva","trade":"electrician"}`

	t.Run("pending confirmation points at the verify page", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		mockIdentity.On("SignUp", mock.Anything, mock.Anything).
			Return(&provider.AuthResult{User: &entity.User{ID: uuid.New()}}, nil)

		c, rec := postJSON(e, "/api/v1/auth/signup", validBody)

		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/verify?email=worker%40example.com")
	})

	t.Run("mismatched passwords fail validation", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		c, rec := postJSON(e, "/api/v1/auth/signup",
			`{"email":"worker@example.com","password":"secret123","confirm_password":"different","first_name":"Ana","last_name":"Silva"}`)

		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "As senhas não coincidem.")
		mockIdentity.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		c, rec := postJSON(e, "/api/v1/auth/signup",
			`{"email":"worker@example.com","password":"abc","confirm_password":"abc","first_name":"Ana","last_name":"Silva"}`)

		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "A senha deve ter no mínimo 6 caracteres.")
	})

	t.Run("unknown trade fails validation", func(t *testing.T) {
		mockIdentity := new(MockIdentityProvider)
		h := newAuthHandler(mockIdentity)

		c, rec := postJSON(e, "/api/v1/auth/signup",
			`{"email":"worker@example.com","password":"secret123","confirm_password":"secret123","first_name":"Ana","last_name":"Silva","trade":"astronaut"}`)

		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Profissão inválida.")
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	e := newAuthEcho()
	mockIdentity := new(MockIdentityProvider)
	h := newAuthHandler(mockIdentity)

	mockIdentity.On("ResetPassword", mock.Anything, "worker@example.com",
		"https://account.onsiteclub.ca/callback?next=/update-password").Return(nil)

	c, rec := postJSON(e, "/api/v1/auth/reset-password", `{"email":"worker@example.com"}`)

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)
	mockIdentity.AssertExpectations(t)
}

func TestAuthHandler_Resend(t *testing.T) {
	e := newAuthEcho()
	mockIdentity := new(MockIdentityProvider)
	h := newAuthHandler(mockIdentity)

	mockIdentity.On("Resend", mock.Anything, "worker@example.com",
		"https://account.onsiteclub.ca/callback").Return(nil)

	c, rec := postJSON(e, "/api/v1/auth/resend", `{"email":"worker@example.com"}`)

	require.NoError(t, h.Resend(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)
	mockIdentity.AssertExpectations(t)
}
