package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/apperror"
)

// contextKeyUsername stores the authenticated username in the Echo
// context. Other plugins read it via GetUsername.
const contextKeyUsername = "auth_username"

// RequireAuth returns middleware that validates the session cookie and
// injects session data into the request context. If the session is
// invalid or missing, the browser is redirected to /login.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				// Only an invalid or expired session clears the cookie.
				// A session store outage must not log everyone out, so
				// infrastructure errors surface as 500 and the cookie
				// stays for the retry.
				if apperror.IsCode(err, http.StatusUnauthorized) {
					clearSessionCookie(c)
					return c.Redirect(http.StatusSeeOther, "/login")
				}
				return err
			}

			// Store the identity in context for downstream handlers.
			c.Set(contextKeyUsername, session.Username)

			return next(c)
		}
	}
}

// --- Exported getters for other plugins ---

// GetUsername retrieves the authenticated username from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUsername(c echo.Context) string {
	username, ok := c.Get(contextKeyUsername).(string)
	if !ok {
		return ""
	}
	return username
}

// SessionToken returns the raw session token from the request cookie.
// Exposed for the users plugin, which must destroy the current session
// after an account deletion.
func SessionToken(c echo.Context) string {
	return getSessionToken(c)
}

// ClearSessionCookie removes the session cookie on the response.
func ClearSessionCookie(c echo.Context) {
	clearSessionCookie(c)
}
