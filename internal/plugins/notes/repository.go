package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jotspace/jot/internal/apperror"
)

// NoteRepository defines the data access contract for note operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type NoteRepository interface {
	// Create inserts a note and returns its generated id.
	Create(ctx context.Context, note *Note) (int64, error)
	FindByID(ctx context.Context, id int64) (*Note, error)
	ListByOwner(ctx context.Context, owner string) ([]Note, error)

	// Update overwrites title, content, and updated_at only. The owner
	// column is never part of the statement, so ownership cannot change
	// through this path.
	Update(ctx context.Context, id int64, title, content string, updatedAt time.Time) error

	// Delete removes the row. Deleting a missing id is apperror.NotFound,
	// not a silent success.
	Delete(ctx context.Context, id int64) error
}

// noteRepository implements NoteRepository with hand-written MariaDB queries.
type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new note repository backed by the given DB pool.
func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts a new note row and returns the auto-generated id.
func (r *noteRepository) Create(ctx context.Context, note *Note) (int64, error) {
	query := `INSERT INTO notes (title, content, owner_username, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		note.OwnerUsername,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading note id: %w", err)
	}

	return id, nil
}

// FindByID retrieves a note by its id.
// Returns apperror.NotFound if no note exists with this id.
func (r *noteRepository) FindByID(ctx context.Context, id int64) (*Note, error) {
	query := `SELECT id, title, content, owner_username, created_at, updated_at
	          FROM notes WHERE id = ?`

	note := &Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.OwnerUsername,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("note not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying note by id: %w", err)
	}

	return note, nil
}

// ListByOwner returns all notes owned by the given username, newest first.
func (r *noteRepository) ListByOwner(ctx context.Context, owner string) ([]Note, error) {
	query := `SELECT id, title, content, owner_username, created_at, updated_at
	          FROM notes WHERE owner_username = ? ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var list []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Content, &n.OwnerUsername, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		list = append(list, n)
	}

	return list, rows.Err()
}

// Update overwrites the title and content of an existing note.
// Returns apperror.NotFound if the note does not exist.
// updated_at is bound from the caller's Go-side UTC clock, like the
// insert, so note ordering does not depend on the DB session timezone.
func (r *noteRepository) Update(ctx context.Context, id int64, title, content string, updatedAt time.Time) error {
	query := `UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, content, updatedAt, id)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		// RowsAffected is also 0 when the new values equal the old ones,
		// but the service loads the row first, so a missing id is the
		// only way to get here for a changed note. Verify to be exact.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM notes WHERE id = ?)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking note existence: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("note not found")
		}
	}

	return nil
}

// Delete removes a note row. Repeated deletes of the same id fail with
// apperror.NotFound.
func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("note not found")
	}

	return nil
}
