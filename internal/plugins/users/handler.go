package users

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/middleware"
	"github.com/jotspace/jot/internal/plugins/auth"
	"github.com/jotspace/jot/internal/templates"
)

// Handler handles HTTP requests for profiles and account deletion.
type Handler struct {
	service     ProfileService
	authService auth.AuthService
}

// NewHandler creates a new users handler.
func NewHandler(service ProfileService, authService auth.AuthService) *Handler {
	return &Handler{service: service, authService: authService}
}

// Profile renders a user's profile with their notes (GET /users/:username).
func (h *Handler) Profile(c echo.Context) error {
	username := c.Param("username")
	sessionUser := auth.GetUsername(c)

	user, noteList, err := h.service.Profile(c.Request().Context(), sessionUser, username)
	if err != nil {
		return err
	}

	views := make([]templates.NoteView, 0, len(noteList))
	for _, n := range noteList {
		views = append(views, templates.NoteView{
			ID:    n.ID,
			Title: n.Title,
			// Content is sanitized before storage, safe to render as HTML.
			ContentHTML: template.HTML(n.Content),
			UpdatedAt:   n.UpdatedAt,
		})
	}

	return templates.Render(c, http.StatusOK, "profile", templates.ProfileData{
		Base: templates.Base{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  sessionUser,
		},
		ProfileUser: user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Notes:       views,
	})
}

// Delete removes the account and all its notes, then ends the session
// (POST /users/:username/delete).
func (h *Handler) Delete(c echo.Context) error {
	username := c.Param("username")
	sessionUser := auth.GetUsername(c)

	if err := h.service.DeleteAccount(c.Request().Context(), sessionUser, username); err != nil {
		return err
	}

	// The account is gone; the session must not outlive it.
	if token := auth.SessionToken(c); token != "" {
		_ = h.authService.DestroySession(c.Request().Context(), token)
	}
	auth.ClearSessionCookie(c)

	return c.Redirect(http.StatusSeeOther, "/")
}
