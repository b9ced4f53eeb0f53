package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/onsiteclub/account-service/internal/domain/entity"
	"go.uber.org/zap"
)

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret string
	Logger *zap.Logger
}

// JWTMiddleware validates Supabase access tokens and rejects requests
// without a valid one.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := userFromRequest(c, config)
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.String("path", c.Request().URL.Path),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}
			setUser(c, user)
			return next(c)
		}
	}
}

// OptionalJWTMiddleware attaches the user when a valid token is present
// and lets anonymous requests through. Entry points that gate on identity
// (checkout) decide what absence means; they must not reject outright.
func OptionalJWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := userFromRequest(c, config)
			if err == nil {
				setUser(c, user)
			}
			return next(c)
		}
	}
}

func userFromRequest(c echo.Context, config JWTConfig) (*entity.User, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("sub claim is not a valid user id: %w", err)
	}

	email, _ := claims["email"].(string)
	return &entity.User{ID: userID, Email: email}, nil
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func setUser(c echo.Context, user *entity.User) {
	c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), user)))
	c.Set("user_id", user.ID.String())
}

// UserFromContext extracts the authenticated user from the request
// context. It returns nil for anonymous requests.
func UserFromContext(c echo.Context) *entity.User {
	user, ok := c.Request().Context().Value(userContextKey).(*entity.User)
	if !ok {
		return nil
	}
	return user
}
