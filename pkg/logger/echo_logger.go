package logger

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewEchoRequestLogger builds an Echo request-logging middleware backed by zap.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	config := middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		HandleError: true,

		LogLatency:     true,
		LogRemoteIP:    true,
		LogHost:        true,
		LogMethod:      true,
		LogURIPath:     true,
		LogRoutePath:   true,
		LogRequestID:   true,
		LogUserAgent:   true,
		LogStatus:      true,
		LogError:       true,
		LogQueryParams: []string{"redirect", "next", "app", "canceled"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.host", v.Host),
				zap.String("request.method", v.Method),
				zap.String("request.path", v.URIPath),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
			}

			if len(v.QueryParams) > 0 {
				fields = append(fields, zap.Any("request.query_params", v.QueryParams))
			}

			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Error("Request failed", fields...)
				return nil
			}

			if v.Status >= 500 {
				logger.Error("Server error", fields...)
				return nil
			}

			if v.Status >= 400 {
				logger.Warn("Client error", fields...)
				return nil
			}

			logger.Info("Request completed", fields...)
			return nil
		},
	}

	return middleware.RequestLoggerWithConfig(config)
}

// WithEchoErrorHandler installs a zap-backed error handler on the Echo instance.
// Every unhandled error still produces a JSON response, never a bare crash.
func WithEchoErrorHandler(e *echo.Echo, logger *zap.Logger) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		logger.Error("HTTP error",
			zap.Error(err),
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()),
			zap.Time("time", time.Now()),
		)

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, map[string]interface{}{
					"error": http.StatusText(code),
				})
			}
			if err != nil {
				logger.Error("Failed to send error response", zap.Error(err))
			}
		}
	}
}
