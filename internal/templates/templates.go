// Package templates renders the server-side HTML pages for Jot. Templates
// are embedded into the binary so the deployed container needs no template
// directory on disk.
//
// Each page template defines a "content" block that is wrapped by the
// shared layout. Pages receive one of the typed *Data structs below --
// handlers never pass raw maps.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed views/*.html
var viewsFS embed.FS

// pages maps a page name to its parsed template set (layout + content).
var pages = mustParsePages(
	"register",
	"login",
	"profile",
	"note_form",
	"error",
)

// mustParsePages parses the layout together with each page template.
// Panics on malformed templates -- this is a programming error caught at
// process start, not a runtime condition.
func mustParsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(template.ParseFS(viewsFS,
			"views/layout.html",
			"views/"+name+".html",
		))
		parsed[name] = t
	}
	return parsed
}

// Render writes the named page to the response with the given status code.
func Render(c echo.Context, statusCode int, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(statusCode)
	return t.ExecuteTemplate(c.Response().Writer, "layout", data)
}

// RenderTo writes the named page to an arbitrary writer. Used by tests to
// check that pages execute against their data structs.
func RenderTo(w io.Writer, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// --- Page data ---

// Base carries fields shared by every page: the CSRF token for forms and
// the logged-in username (empty when logged out) for the nav bar.
type Base struct {
	CSRFToken string
	Username  string
}

// RegisterData is the data for the registration page. On validation or
// duplicate-username errors the submitted values (never the password) are
// echoed back into the form.
type RegisterData struct {
	Base
	Error     string
	FormUser  string
	FormEmail string
	FormFirst string
	FormLast  string
}

// LoginData is the data for the login page.
type LoginData struct {
	Base
	Error    string
	FormUser string
}

// ProfileData is the data for a user's profile page: identity fields plus
// the user's notes, newest first.
type ProfileData struct {
	Base
	ProfileUser string
	Email       string
	FirstName   string
	LastName    string
	Notes       []NoteView
}

// NoteView is a single note as shown on the profile page. ContentHTML is
// sanitized before storage, so it is safe to render unescaped.
type NoteView struct {
	ID          int64
	Title       string
	ContentHTML template.HTML
	UpdatedAt   time.Time
}

// NoteFormData is the data for the add-note and edit-note pages. For edits,
// NoteID is the existing note's id and Action points at the update route.
type NoteFormData struct {
	Base
	Title       string // page heading: "Add note" / "Edit note"
	Action      string // form POST target
	Error       string
	NoteID      int64
	FormTitle   string
	FormContent string
}

// ErrorData is the data for the error page.
type ErrorData struct {
	Base
	Code    int
	Message string
}
