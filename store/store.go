// Package store persists users and notes. Two implementations exist: MySQL
// for the server and an in-memory one for tests.
package store

import (
	"context"

	"notekeeper/models"
)

type UserStore interface {
	// CreateUser inserts the user and fills in its ID and CreatedAt.
	// Returns apperr.ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
}

type NoteStore interface {
	// CreateNote inserts the note, minting an ID when none is set.
	CreateNote(ctx context.Context, n *models.Note) (*models.Note, error)
	NoteByID(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id string) error
	// NotesByUser returns the user's notes, pinned first, then most
	// recently updated first.
	NotesByUser(ctx context.Context, userID int) ([]models.Note, error)
	// SearchNotes filters the user's notes by case-insensitive substring
	// match on title or content, same ordering as NotesByUser.
	SearchNotes(ctx context.Context, userID int, query string) ([]models.Note, error)
}
