package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all auth-related routes on the given Echo
// instance. Auth routes are public (no session required) -- the
// RequireAuth middleware is exported separately for other plugins to use
// on their route groups. The global CSRF middleware already guards every
// POST here.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout)
}
