package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/pkg/models"
)

var startTime = time.Now()

// Version is reported by the health endpoints
var Version = "1.0.0"

// HealthCheck probes one dependency for the readiness endpoint
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestLogger(c).Debug("Health check requested")

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler runs every check and answers 503 if any fails
func ReadinessHandler(checks ...HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    map[string]string{"api": "ok"},
		}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				requestLogger(c).Warn("Readiness check failed", map[string]interface{}{
					"check": hc.Name,
					"error": err.Error(),
				})
				response.Checks[hc.Name] = "unavailable"
				response.Status = "not_ready"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[hc.Name] = "ok"
		}

		return c.JSON(status, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}
