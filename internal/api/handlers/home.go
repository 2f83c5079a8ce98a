package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"jobboard/internal/api/middleware"
	"jobboard/internal/jobs"
)

// HomeIndexHandler lists jobs, filtered by the searchString query parameter
func HomeIndexHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		search := strings.TrimSpace(c.QueryParam("searchString"))
		listing, err := svc.List(c.Request().Context(), search)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"search_string": search,
			"jobs":          listing,
		})
	}
}

func PrivacyHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"title": "Privacy Policy",
		"body":  "Use this page to detail your site's privacy policy.",
	})
}

// ErrorPageHandler reports the request id so a user can quote it to support
func ErrorPageHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"request_id": middleware.RequestID(c),
	})
}

// AccessDeniedHandler is the target of access denied redirects
func AccessDeniedHandler(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"error":   "access_denied",
		"message": "You do not have access to this resource.",
	})
}
