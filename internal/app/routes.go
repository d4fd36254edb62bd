package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/plugins/auth"
	"github.com/jotspace/jot/internal/plugins/notes"
	"github.com/jotspace/jot/internal/plugins/users"
)

// RegisterRoutes constructs all repositories, services, and handlers, and
// sets up every application route. This is the single place where the
// plugins are wired together.
func RegisterRoutes(a *App) {
	e := a.Echo

	// --- Plugin wiring ---

	sessions := auth.NewSessionStore(a.Redis, a.Config.SessionTTL)
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, sessions)
	authHandler := auth.NewHandler(authService, a.Config.SessionTTL)

	noteRepo := notes.NewNoteRepository(a.DB)
	noteService := notes.NewNoteService(noteRepo)
	noteHandler := notes.NewHandler(noteService)

	profileService := users.NewProfileService(authService, noteService)
	userHandler := users.NewHandler(profileService, authService)

	// --- Public routes (no auth required) ---

	// The landing page is the registration form.
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/register")
	})

	// Health check endpoint for container health monitoring. Reports DB
	// and Redis connectivity so orchestrators restart a wedged instance.
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := a.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded", "database": err.Error(),
			})
		}
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded", "redis": err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register, login, logout.
	auth.RegisterRoutes(e, authHandler)

	// --- Authenticated routes ---
	// Everything below requires a valid session.
	authed := e.Group("", auth.RequireAuth(authService))

	users.RegisterRoutes(authed, userHandler)
	notes.RegisterRoutes(authed, noteHandler)
}
