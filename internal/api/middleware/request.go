package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/internal/logging"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

const requestIDKey = "request_id"

// RequestValidation tags each request with an id and rejects bodies above maxBytes
func RequestValidation(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(requestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if maxBytes > 0 && c.Request().ContentLength > maxBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			if maxBytes > 0 && c.Request().Body != nil {
				c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			}

			return next(c)
		}
	}
}

// RequestID returns the id assigned by RequestValidation
func RequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// RequestLogger logs one line per request through the application logger
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := map[string]interface{}{
				"request_id": RequestID(c),
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if p := PrincipalFrom(c); p.Authenticated() {
				fields["user_id"] = p.UserID
			}

			switch {
			case c.Response().Status >= http.StatusInternalServerError:
				logger.Error("request failed", fields)
			case c.Response().Status >= http.StatusBadRequest:
				logger.Warn("request rejected", fields)
			default:
				logger.Info("request completed", fields)
			}
			return nil
		}
	}
}
