// Package authz implements the ownership policy for Jot. A resource (a
// profile or a note) is accessible only to the user it belongs to; there
// are no roles and no sharing, so owner equality is the entire policy.
//
// Every handler that reads a profile or mutates a user or note calls
// RequireOwner before touching the store. Denials are hard rejections
// (403), never silent redirects, so the outcome of a failed check is the
// same on every route.
package authz

import (
	"github.com/jotspace/jot/internal/apperror"
)

// RequireOwner allows the request iff the session holds a username and it
// equals the resource owner's username. An empty sessionUsername (no
// authenticated session) yields 401 so the error handler can send the
// browser to the login page; a mismatch yields 403.
func RequireOwner(sessionUsername, resourceOwner string) error {
	if sessionUsername == "" {
		return apperror.NewUnauthorized("authentication required")
	}
	if sessionUsername != resourceOwner {
		return apperror.NewForbidden("you do not have access to this resource")
	}
	return nil
}
