package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/internal/api/middleware"
	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/pkg/utils"
)

// deadlineLayouts are accepted for the ApplicationDeadline form field
var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func principal(c echo.Context) auth.Principal {
	return middleware.PrincipalFrom(c)
}

func requestLogger(c echo.Context) logging.Logger {
	return logging.LogWithRequestID(middleware.RequestID(c))
}

// idParam parses the :id path parameter. Malformed ids are reported as not found.
func idParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	if raw == "" {
		raw = c.QueryParam(name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewNotFoundError(fmt.Sprintf("%s %q", name, raw))
	}
	return uint(id), nil
}

func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, utils.NewFieldValidationError("ApplicationDeadline", "The ApplicationDeadline field is not a valid date.")
}

// bind decodes the request into dst, translating decoder failures into validation errors
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		if tooLarge(err) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return utils.NewValidationError(fmt.Sprint(he.Message))
		}
		return utils.NewValidationError("Invalid request format")
	}
	return nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
