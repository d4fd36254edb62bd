package notes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/apperror"
	"github.com/jotspace/jot/internal/middleware"
	"github.com/jotspace/jot/internal/plugins/auth"
	"github.com/jotspace/jot/internal/templates"
)

// Handler handles HTTP requests for note CRUD. All routes run inside the
// RequireAuth group, so a session is always present; ownership is still
// checked per request by the service.
type Handler struct {
	service NoteService
}

// NewHandler creates a new notes handler with the given service.
func NewHandler(service NoteService) *Handler {
	return &Handler{service: service}
}

// AddForm renders the add-note page (GET /users/:username/notes/add).
// A user can only reach their own add form.
func (h *Handler) AddForm(c echo.Context) error {
	owner := c.Param("username")
	if auth.GetUsername(c) != owner {
		return apperror.NewForbidden("you can only add notes to your own profile")
	}

	return templates.Render(c, http.StatusOK, "note_form", templates.NoteFormData{
		Base: templates.Base{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  auth.GetUsername(c),
		},
		Title:  "Add note",
		Action: fmt.Sprintf("/users/%s/notes/add", owner),
	})
}

// Add processes the add-note form (POST /users/:username/notes/add).
func (h *Handler) Add(c echo.Context) error {
	owner := c.Param("username")

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := NoteInput{Title: req.Title, Content: req.Content}

	_, err := h.service.Add(c.Request().Context(), auth.GetUsername(c), owner, input)
	if err != nil {
		if apperror.IsCode(err, http.StatusUnprocessableEntity) {
			return templates.Render(c, http.StatusOK, "note_form", templates.NoteFormData{
				Base: templates.Base{
					CSRFToken: middleware.GetCSRFToken(c),
					Username:  auth.GetUsername(c),
				},
				Title:       "Add note",
				Action:      fmt.Sprintf("/users/%s/notes/add", owner),
				Error:       apperror.SafeMessage(err),
				FormTitle:   req.Title,
				FormContent: req.Content,
			})
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/users/"+owner)
}

// UpdateForm renders the edit-note page (GET /notes/:id/update) with the
// note's current values. Non-owners get a hard 403.
func (h *Handler) UpdateForm(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := h.service.Get(c.Request().Context(), auth.GetUsername(c), id)
	if err != nil {
		return err
	}

	return templates.Render(c, http.StatusOK, "note_form", templates.NoteFormData{
		Base: templates.Base{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  auth.GetUsername(c),
		},
		Title:       "Edit note",
		Action:      fmt.Sprintf("/notes/%d/update", note.ID),
		NoteID:      note.ID,
		FormTitle:   note.Title,
		FormContent: note.Content,
	})
}

// Update processes the edit-note form (POST /notes/:id/update).
func (h *Handler) Update(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := NoteInput{Title: req.Title, Content: req.Content}
	sessionUser := auth.GetUsername(c)

	if err := h.service.Edit(c.Request().Context(), sessionUser, id, input); err != nil {
		if apperror.IsCode(err, http.StatusUnprocessableEntity) {
			return templates.Render(c, http.StatusOK, "note_form", templates.NoteFormData{
				Base: templates.Base{
					CSRFToken: middleware.GetCSRFToken(c),
					Username:  sessionUser,
				},
				Title:       "Edit note",
				Action:      fmt.Sprintf("/notes/%d/update", id),
				NoteID:      id,
				Error:       apperror.SafeMessage(err),
				FormTitle:   req.Title,
				FormContent: req.Content,
			})
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/users/"+sessionUser)
}

// Delete removes a note (POST /notes/:id/delete).
func (h *Handler) Delete(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	sessionUser := auth.GetUsername(c)
	if err := h.service.Delete(c.Request().Context(), sessionUser, id); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/users/"+sessionUser)
}

// noteID parses the :id path parameter. A non-numeric id can never match
// a note, so it is a 404, not a 400.
func noteID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFound("note not found")
	}
	return id, nil
}
