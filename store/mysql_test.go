package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/apperr"
	"notekeeper/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMySQLCreateUserDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)")).
		WithArgs("lucas", "a@example.com", "hash").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := s.CreateUser(context.Background(), &models.User{
		Username: "lucas", Email: "a@example.com", PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLUserByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLUserStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?")).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.UserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLNotesByUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLNoteStore(db)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "tags", "is_pinned", "created_at", "updated_at"}).
		AddRow("id-1", 1, "Pinned", "c1", []byte(`["home","work"]`), true, now, now).
		AddRow("id-2", 1, "Plain", "c2", []byte(`[]`), false, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at FROM notes WHERE user_id = ? ORDER BY is_pinned DESC, updated_at DESC")).
		WithArgs(1).
		WillReturnRows(rows)

	notes, err := s.NotesByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"home", "work"}, notes[0].Tags)
	assert.True(t, notes[0].IsPinned)
	assert.Equal(t, []string{}, notes[1].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSearchNotesLowersQuery(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLNoteStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "tags", "is_pinned", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at FROM notes WHERE user_id = ? AND (LOWER(title) LIKE ? OR LOWER(content) LIKE ?) ORDER BY is_pinned DESC, updated_at DESC")).
		WithArgs(7, "%milk%", "%milk%").
		WillReturnRows(rows)

	notes, err := s.SearchNotes(context.Background(), 7, "MiLk")
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLNoteByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLNoteStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at FROM notes WHERE id = ?")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.NoteByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDeleteNoteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLNoteStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = ?")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteNote(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCreateNoteMintsID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMySQLNoteStore(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO notes (id, user_id, title, content, tags, is_pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.CreateNote(context.Background(), &models.Note{
		UserID: 1, Title: "t", Content: "c",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
