package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/onsiteclub/account-service/internal/domain/entity"
	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
	"github.com/onsiteclub/account-service/internal/domain/provider"
	"go.uber.org/zap"
)

// Client implements the identity capability surface against the Supabase
// GoTrue REST API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewClient creates a new Supabase identity client
func NewClient(baseURL, apiKey string, logger *zap.Logger) provider.IdentityProvider {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// authResponse is the GoTrue payload shape shared by the token and signup
// endpoints. The session fields are absent when email confirmation is
// still pending.
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	// Signup responses without a session put the user at the top level.
	ID    string `json:"id"`
	Email string `json:"email"`
}

// errorResponse covers the error payload shapes GoTrue has used across
// versions.
type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

func (e *errorResponse) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.ErrorField
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*provider.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}

	var auth authResponse
	if err := json.Unmarshal(resp, &auth); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	return c.toAuthResult(&auth)
}

func (c *Client) SignUp(ctx context.Context, req *provider.SignUpRequest) (*provider.AuthResult, error) {
	body := map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
		"data":     req.Metadata,
	}
	path := "/auth/v1/signup"
	if req.EmailRedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(req.EmailRedirectTo)
	}
	resp, err := c.post(ctx, path, "", body)
	if err != nil {
		return nil, err
	}

	var auth authResponse
	if err := json.Unmarshal(resp, &auth); err != nil {
		return nil, fmt.Errorf("failed to decode sign-up response: %w", err)
	}
	return c.toAuthResult(&auth)
}

func (c *Client) ResetPassword(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	_, err := c.post(ctx, path, "", map[string]string{"email": email})
	return err
}

func (c *Client) Resend(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/resend"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	_, err := c.post(ctx, path, "", map[string]string{"type": "signup", "email": email})
	return err
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*entity.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp.StatusCode, data)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("identity provider returned malformed user id: %w", err)
	}
	return &entity.User{ID: id, Email: user.Email}, nil
}

func (c *Client) post(ctx context.Context, path, accessToken string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Identity provider request failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Identity provider returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, c.providerError(resp.StatusCode, data)
	}

	return data, nil
}

func (c *Client) providerError(status int, data []byte) error {
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err == nil && payload.text() != "" {
		return &domainErrors.ProviderError{Status: status, Message: payload.text()}
	}
	return &domainErrors.ProviderError{Status: status, Message: http.StatusText(status)}
}

func (c *Client) toAuthResult(auth *authResponse) (*provider.AuthResult, error) {
	result := &provider.AuthResult{}

	rawID, rawEmail := auth.ID, auth.Email
	if auth.User != nil {
		rawID, rawEmail = auth.User.ID, auth.User.Email
	}
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("identity provider returned malformed user id: %w", err)
		}
		result.User = &entity.User{ID: id, Email: rawEmail}
	}

	if auth.AccessToken != "" {
		result.Session = &entity.SessionCredentials{
			AccessToken:  auth.AccessToken,
			RefreshToken: auth.RefreshToken,
		}
	}
	return result, nil
}
