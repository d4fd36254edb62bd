package notes

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all note routes on the given group. The group
// must carry the auth.RequireAuth middleware; the global CSRF middleware
// guards every POST.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/users/:username/notes/add", h.AddForm)
	g.POST("/users/:username/notes/add", h.Add)
	g.GET("/notes/:id/update", h.UpdateForm)
	g.POST("/notes/:id/update", h.Update)
	g.POST("/notes/:id/delete", h.Delete)
}
