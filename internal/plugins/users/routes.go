package users

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up profile and account-deletion routes on the given
// group. The group must carry the auth.RequireAuth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/users/:username", h.Profile)
	g.POST("/users/:username/delete", h.Delete)
}
