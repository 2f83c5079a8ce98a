package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/internal/logging"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// AccessDeniedPath is where authenticated callers lacking a role are sent
const AccessDeniedPath = "/Account/AccessDenied"

// ErrorHandler turns service errors into responses. Access denied becomes a
// redirect, everything else a JSON ErrorResponse carrying the request id.
func ErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		requestID := RequestID(c)

		if errors.Is(err, utils.ErrAccessDenied) {
			target := AccessDeniedPath
			if !PrincipalFrom(c).Authenticated() {
				target = LoginURL(c)
			}
			logger.Warn("access denied", map[string]interface{}{
				"request_id": requestID,
				"path":       c.Request().URL.Path,
				"error":      err.Error(),
			})
			writeErr(c, c.Redirect(http.StatusFound, target), logger)
			return
		}

		status, resp := errorResponse(err)
		resp.RequestID = requestID
		resp.Timestamp = time.Now()

		if status >= http.StatusInternalServerError {
			logger.Error("request error", map[string]interface{}{
				"request_id": requestID,
				"path":       c.Request().URL.Path,
				"error":      err.Error(),
			})
			if status == http.StatusInternalServerError {
				resp.Message = "An error occurred while processing your request."
			}
		}

		if c.Request().Method == http.MethodHead {
			writeErr(c, c.NoContent(status), logger)
			return
		}
		writeErr(c, c.JSON(status, resp), logger)
	}
}

func errorResponse(err error) (int, models.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		return he.Code, models.ErrorResponse{Error: errorCode(he.Code), Message: msg}
	}

	var ce *utils.CustomError
	if errors.As(err, &ce) {
		msg := ce.Message
		if ce.Detail != "" {
			msg = ce.Detail
		}
		return ce.Code, models.ErrorResponse{Error: errorCode(ce.Code), Message: msg, Fields: ce.Fields}
	}

	status := utils.StatusCode(err)
	return status, models.ErrorResponse{Error: errorCode(status), Message: err.Error()}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_failed"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusBadGateway:
		return "upstream_failed"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "request_failed"
}

func writeErr(c echo.Context, err error, logger logging.Logger) {
	if err != nil {
		logger.Error("failed to write error response", map[string]interface{}{
			"request_id": RequestID(c),
			"error":      err.Error(),
		})
	}
}
