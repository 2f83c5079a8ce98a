package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/session"
)

const principalKey = "principal"

// Authenticator resolves a session id to the signed in principal
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (auth.Principal, error)
}

// SessionCookie describes the cookie carrying the session id
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Set writes the session cookie for id
func (sc SessionCookie) Set(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sc.MaxAge.Seconds()),
	})
}

// Clear expires the session cookie
func (sc SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.Secure,
		MaxAge:   -1,
	})
}

// SessionID returns the raw session id from the request cookie
func (sc SessionCookie) SessionID(c echo.Context) string {
	cookie, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionAuth loads the principal for the session cookie. Requests without a
// valid session continue as anonymous.
func SessionAuth(authn Authenticator, sc SessionCookie, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(principalKey, auth.Anonymous)

			id := sc.SessionID(c)
			if id == "" {
				return next(c)
			}

			p, err := authn.Authenticate(c.Request().Context(), id)
			switch {
			case err == nil:
				c.Set(principalKey, p)
				// refresh the browser side expiry with the sliding timeout
				sc.Set(c, id)
			case errors.Is(err, session.ErrNoSession):
				sc.Clear(c)
			default:
				logger.Error("session lookup failed", map[string]interface{}{
					"request_id": RequestID(c),
					"error":      err.Error(),
				})
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by SessionAuth
func PrincipalFrom(c echo.Context) auth.Principal {
	if p, ok := c.Get(principalKey).(auth.Principal); ok {
		return p
	}
	return auth.Anonymous
}

// RequireAuth redirects anonymous callers to the login page
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !PrincipalFrom(c).Authenticated() {
				return c.Redirect(http.StatusFound, LoginURL(c))
			}
			return next(c)
		}
	}
}

// LoginURL is the login page with the current request as return target
func LoginURL(c echo.Context) string {
	return "/Identity/Account/Login?" + url.Values{"ReturnUrl": {c.Request().URL.RequestURI()}}.Encode()
}
