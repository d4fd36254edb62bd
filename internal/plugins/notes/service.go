package notes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jotspace/jot/internal/apperror"
	"github.com/jotspace/jot/internal/authz"
	"github.com/jotspace/jot/internal/sanitize"
)

// NoteService defines the business logic contract for notes. Every method
// takes the session's username and applies the ownership policy before
// touching the repository.
type NoteService interface {
	// Add creates a note under owner and returns its generated id. The
	// session user must be the target owner.
	Add(ctx context.Context, sessionUsername, owner string, input NoteInput) (int64, error)

	// Get loads a note for its owner (e.g. to fill the edit form).
	Get(ctx context.Context, sessionUsername string, id int64) (*Note, error)

	// Edit overwrites title and content of an owned note. The id and the
	// owner never change.
	Edit(ctx context.Context, sessionUsername string, id int64, input NoteInput) error

	// Delete removes an owned note. Deleting a missing id is NotFound.
	Delete(ctx context.Context, sessionUsername string, id int64) error

	// ListByOwner returns the owner's notes for the profile page.
	ListByOwner(ctx context.Context, sessionUsername, owner string) ([]Note, error)
}

// noteService implements NoteService on top of the repository, the
// ownership guard, and the content sanitizer.
type noteService struct {
	repo NoteRepository
}

// NewNoteService creates a new note service with the given repository.
func NewNoteService(repo NoteRepository) NoteService {
	return &noteService{repo: repo}
}

// Add validates the input, sanitizes the content, and persists a new note
// owned by owner. Returns the generated id.
func (s *noteService) Add(ctx context.Context, sessionUsername, owner string, input NoteInput) (int64, error) {
	if err := authz.RequireOwner(sessionUsername, owner); err != nil {
		return 0, err
	}

	input, err := cleanNoteInput(input)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	note := &Note{
		Title:         input.Title,
		Content:       input.Content,
		OwnerUsername: owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.repo.Create(ctx, note)
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("creating note: %w", err))
	}

	slog.Info("note created",
		slog.Int64("note_id", id),
		slog.String("owner", owner),
	)

	return id, nil
}

// Get loads a note and checks that the session user owns it.
func (s *noteService) Get(ctx context.Context, sessionUsername string, id int64) (*Note, error) {
	note, err := s.findNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(sessionUsername, note.OwnerUsername); err != nil {
		return nil, err
	}
	return note, nil
}

// Edit loads the note, checks ownership against its stored owner, and
// overwrites title and content only.
func (s *noteService) Edit(ctx context.Context, sessionUsername string, id int64, input NoteInput) error {
	note, err := s.findNote(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(sessionUsername, note.OwnerUsername); err != nil {
		return err
	}

	input, err = cleanNoteInput(input)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, input.Title, input.Content, time.Now().UTC()); err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("updating note: %w", err))
	}

	slog.Info("note updated",
		slog.Int64("note_id", id),
		slog.String("owner", note.OwnerUsername),
	)

	return nil
}

// Delete loads the note, checks ownership, and removes it.
func (s *noteService) Delete(ctx context.Context, sessionUsername string, id int64) error {
	note, err := s.findNote(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(sessionUsername, note.OwnerUsername); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting note: %w", err))
	}

	slog.Info("note deleted",
		slog.Int64("note_id", id),
		slog.String("owner", note.OwnerUsername),
	)

	return nil
}

// ListByOwner returns the owner's notes for the profile page. Profiles are
// private, so the session user must be the owner.
func (s *noteService) ListByOwner(ctx context.Context, sessionUsername, owner string) ([]Note, error) {
	if err := authz.RequireOwner(sessionUsername, owner); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing notes: %w", err))
	}
	return list, nil
}

// findNote loads a note, mapping infrastructure errors to internal errors
// while passing NotFound through untouched.
func (s *noteService) findNote(ctx context.Context, id int64) (*Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding note: %w", err))
	}
	return note, nil
}

// cleanNoteInput validates the title and sanitizes both fields. Titles are
// plain text; content may carry basic formatting, so it goes through the
// UGC policy instead of being stripped.
func cleanNoteInput(input NoteInput) (NoteInput, error) {
	input.Title = strings.TrimSpace(sanitize.Text(input.Title))
	input.Content = sanitize.Content(input.Content)

	if input.Title == "" {
		return input, apperror.NewValidation("title is required")
	}
	if len(input.Title) > maxTitleLen {
		return input, apperror.NewValidation(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	return input, nil
}
