package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard/internal/api/middleware"
	"jobboard/internal/identity"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// RegisterHandler creates an account. Field errors come back as 400; any
// other failure, the confirmation email included, is a 500.
func RegisterHandler(svc *identity.Service, cookie middleware.SessionCookie) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RegisterRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.ReturnURL == "" {
			req.ReturnURL = c.QueryParam("ReturnUrl")
		}

		result, err := svc.Register(c.Request().Context(), req)
		if err != nil {
			if errors.Is(err, utils.ErrValidation) {
				return err
			}
			requestLogger(c).Error("registration failed", map[string]interface{}{"error": err.Error()})
			return utils.NewInternalServerError("registration failed")
		}

		if result.Session != nil {
			cookie.Set(c, result.Session.ID)
		}
		return c.JSON(http.StatusOK, models.RegisterResponse{
			UserID:      result.User.ID,
			RedirectURL: result.RedirectURL,
			SignedIn:    result.Session != nil,
		})
	}
}

func RegisterConfirmationHandler(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"email":   email,
		"message": "Please check your email to confirm your account.",
	})
}

func ConfirmEmailHandler(svc *identity.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := svc.ConfirmEmail(c.Request().Context(), c.QueryParam("userId"), c.QueryParam("code"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Thank you for confirming your email.",
		})
	}
}

func LoginHandler(svc *identity.Service, cookie middleware.SessionCookie) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.LoginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.ReturnURL == "" {
			req.ReturnURL = c.QueryParam("ReturnUrl")
		}

		sess, err := svc.Login(c.Request().Context(), req)
		if err != nil {
			return err
		}
		cookie.Set(c, sess.ID)

		target := req.ReturnURL
		if !utils.IsLocalURL(target) {
			target = "/"
		}
		return c.Redirect(http.StatusFound, target)
	}
}

func LogoutHandler(svc *identity.Service, cookie middleware.SessionCookie) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := cookie.SessionID(c); id != "" {
			if err := svc.Logout(c.Request().Context(), id); err != nil {
				requestLogger(c).Warn("failed to delete session", map[string]interface{}{"error": err.Error()})
			}
		}
		cookie.Clear(c)
		return c.Redirect(http.StatusFound, "/")
	}
}
