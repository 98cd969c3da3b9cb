package models

import (
	"time"
)

// NoteTags is the set of allowed note tags.
var NoteTags = []string{"Todo", "Work", "Personal", "Meeting", "Shopping"}

// DefaultNoteTag is applied when a note is created without a tag.
const DefaultNoteTag = "Todo"

// ValidNoteTag reports whether tag is one of the allowed values.
func ValidNoteTag(tag string) bool {
	for _, t := range NoteTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Note is a user-owned content entity. Every note references exactly one
// user and all queries are scoped by that reference.
type Note struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Tag       string    `json:"tag" db:"tag"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NoteList is the paginated response shape for GET /notes.
type NoteList struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalNotes int     `json:"totalNotes"`
	TotalPages int     `json:"totalPages"`
	Notes      []*Note `json:"notes"`
}
