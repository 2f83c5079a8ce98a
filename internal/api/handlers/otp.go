package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard/internal/otp"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// SendOtpHandler issues a code for {phoneNumber}. Responses are plain text.
func SendOtpHandler(svc *otp.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SendOtpRequest
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, "Invalid request format")
		}

		_, err := svc.Issue(c.Request().Context(), req.PhoneNumber)
		switch {
		case err == nil:
			return c.String(http.StatusOK, "OTP sent successfully")
		case errors.Is(err, otp.ErrRateLimited):
			return c.String(http.StatusTooManyRequests, "Too many OTP requests. Please try again later.")
		case errors.Is(err, utils.ErrValidation):
			return c.String(http.StatusBadRequest, validationText(err))
		}

		requestLogger(c).Error("otp send failed", map[string]interface{}{"error": err.Error()})
		return c.String(http.StatusBadRequest, "Failed to send OTP.")
	}
}

// VerifyOtpHandler checks {phoneNumber, otp} and consumes the code on success
func VerifyOtpHandler(svc *otp.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.VerifyOtpRequest
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, "Invalid request format")
		}

		err := svc.Verify(c.Request().Context(), req.PhoneNumber, req.Otp)
		switch {
		case err == nil:
			return c.String(http.StatusOK, "OTP verified successfully")
		case errors.Is(err, otp.ErrInvalidCode):
			return c.String(http.StatusBadRequest, "Invalid OTP")
		case errors.Is(err, utils.ErrValidation):
			return c.String(http.StatusBadRequest, validationText(err))
		}
		return err
	}
}

func validationText(err error) string {
	var ce *utils.CustomError
	if errors.As(err, &ce) && ce.Detail != "" {
		return ce.Detail
	}
	return err.Error()
}
