// Package users implements the profile page and account deletion for Jot.
// Profiles are private: a user can only view their own profile, and only
// the owner can delete the account. Deletion removes the user together
// with every note they own in a single transaction and ends the session.
package users

import (
	"context"

	"github.com/jotspace/jot/internal/authz"
	"github.com/jotspace/jot/internal/plugins/auth"
	"github.com/jotspace/jot/internal/plugins/notes"
)

// ProfileService composes the auth and notes services behind the profile
// page and the account-deletion flow.
type ProfileService interface {
	// Profile returns the user record and their notes, newest first.
	// The session user must be the profile owner.
	Profile(ctx context.Context, sessionUsername, username string) (*auth.User, []notes.Note, error)

	// DeleteAccount removes the user and all owned notes atomically. The
	// caller destroys the HTTP session afterwards.
	DeleteAccount(ctx context.Context, sessionUsername, username string) error
}

// profileService implements ProfileService.
type profileService struct {
	authService auth.AuthService
	noteService notes.NoteService
}

// NewProfileService creates a profile service over the given services.
func NewProfileService(authService auth.AuthService, noteService notes.NoteService) ProfileService {
	return &profileService{
		authService: authService,
		noteService: noteService,
	}
}

// Profile checks ownership, then loads the user and their notes.
func (s *profileService) Profile(ctx context.Context, sessionUsername, username string) (*auth.User, []notes.Note, error) {
	if err := authz.RequireOwner(sessionUsername, username); err != nil {
		return nil, nil, err
	}

	user, err := s.authService.GetUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	list, err := s.noteService.ListByOwner(ctx, sessionUsername, username)
	if err != nil {
		return nil, nil, err
	}

	return user, list, nil
}

// DeleteAccount checks ownership, then cascade-deletes the account.
func (s *profileService) DeleteAccount(ctx context.Context, sessionUsername, username string) error {
	if err := authz.RequireOwner(sessionUsername, username); err != nil {
		return err
	}
	return s.authService.DeleteAccount(ctx, username)
}
