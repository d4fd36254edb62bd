package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/apperror"
	"github.com/jotspace/jot/internal/middleware"
	"github.com/jotspace/jot/internal/templates"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "jot_session"

// Handler handles HTTP requests for authentication (register, login,
// logout). Handlers are thin: they bind the request, call the service,
// and render the response. No business logic lives here.
type Handler struct {
	service    AuthService
	sessionTTL time.Duration
}

// NewHandler creates a new auth handler. sessionTTL is the configured
// session lifetime; the session cookie expires together with the Redis key.
func NewHandler(service AuthService, sessionTTL time.Duration) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTL}
}

// RegisterForm renders the registration page (GET /register).
// Logged-in users are redirected to their own profile.
func (h *Handler) RegisterForm(c echo.Context) error {
	if username := h.currentUsername(c); username != "" {
		return c.Redirect(http.StatusSeeOther, "/users/"+username)
	}

	return templates.Render(c, http.StatusOK, "register", templates.RegisterData{
		Base: templates.Base{CSRFToken: middleware.GetCSRFToken(c)},
	})
}

// Register processes the registration form (POST /register). On success
// the new user is logged in immediately and sent to their profile.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	user, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		// Validation and duplicate-username failures re-render the form
		// with the message and the submitted values (never the password).
		return templates.Render(c, http.StatusOK, "register", templates.RegisterData{
			Base:      templates.Base{CSRFToken: middleware.GetCSRFToken(c)},
			Error:     apperror.SafeMessage(err),
			FormUser:  req.Username,
			FormEmail: req.Email,
			FormFirst: req.FirstName,
			FormLast:  req.LastName,
		})
	}

	// Registration establishes a session without a second credential check.
	token, err := h.service.StartSession(c.Request().Context(), user.Username)
	if err != nil {
		// Account exists but the session store is down -- send them to login.
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	setSessionCookie(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, "/users/"+user.Username)
}

// LoginForm renders the login page (GET /login).
// Logged-in users are redirected to their own profile.
func (h *Handler) LoginForm(c echo.Context) error {
	if username := h.currentUsername(c); username != "" {
		return c.Redirect(http.StatusSeeOther, "/users/"+username)
	}

	return templates.Render(c, http.StatusOK, "login", templates.LoginData{
		Base: templates.Base{CSRFToken: middleware.GetCSRFToken(c)},
	})
}

// Login processes the login form (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := LoginInput{
		Username: req.Username,
		Password: req.Password,
	}

	token, user, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		// Unknown username and wrong password render the same message.
		return templates.Render(c, http.StatusOK, "login", templates.LoginData{
			Base:     templates.Base{CSRFToken: middleware.GetCSRFToken(c)},
			Error:    apperror.SafeMessage(err),
			FormUser: req.Username,
		})
	}

	setSessionCookie(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, "/users/"+user.Username)
}

// Logout destroys the session and clears the cookie (POST /logout).
func (h *Handler) Logout(c echo.Context) error {
	token := getSessionToken(c)
	if token != "" {
		// Destroy the session in Redis. Ignore errors -- the cookie
		// will be cleared regardless.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}

	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// currentUsername resolves the session cookie to a username, or returns
// empty when the request is not authenticated. Used by the public form
// pages, which run outside the RequireAuth group.
func (h *Handler) currentUsername(c echo.Context) string {
	token := getSessionToken(c)
	if token == "" {
		return ""
	}
	session, err := h.service.ValidateSession(c.Request().Context(), token)
	if err != nil {
		return ""
	}
	return session.Username
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure if behind TLS, and SameSite=Lax.
// MaxAge matches the Redis key TTL so the cookie and the session expire
// together.
func setSessionCookie(c echo.Context, token string, ttl time.Duration) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
