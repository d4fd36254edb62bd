// Package notes implements per-user note CRUD for Jot. Every mutation is
// guarded by the ownership policy: only the note's owner may edit or
// delete it, and notes can only be added under the session's own username.
package notes

import (
	"time"
)

// maxTitleLen mirrors the notes.title column.
const maxTitleLen = 100

// Note is a single note owned by a user. The id is generated by the
// database; id and owner are immutable after creation.
type Note struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NoteRequest holds the data submitted by the add-note and edit-note forms.
type NoteRequest struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

// NoteInput is the validated input for creating or editing a note.
type NoteInput struct {
	Title   string
	Content string
}
