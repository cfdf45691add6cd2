package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"notekeeper/apperr"
	"notekeeper/models"
)

const duplicateEntryErrNo = 1062

type MySQLUserStore struct {
	db *sql.DB
}

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

func (s *MySQLUserStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		u.Username, u.Email, u.PasswordHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == duplicateEntryErrNo {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.UserByID(ctx, int(id))
}

func (s *MySQLUserStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email))
}

func (s *MySQLUserStore) UserByID(ctx context.Context, id int) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id))
}

func (s *MySQLUserStore) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

type MySQLNoteStore struct {
	db *sql.DB
}

func NewMySQLNoteStore(db *sql.DB) *MySQLNoteStore {
	return &MySQLNoteStore{db: db}
}

const noteColumns = "id, user_id, title, content, tags, is_pinned, created_at, updated_at"

func (s *MySQLNoteStore) CreateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	tags, err := encodeTags(n.Tags)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO notes (id, user_id, title, content, tags, is_pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.UserID, n.Title, n.Content, tags, n.IsPinned, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (s *MySQLNoteStore) NoteByID(ctx context.Context, id string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	n := models.Note{}
	var tags []byte
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &tags, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	if err := decodeTags(tags, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *MySQLNoteStore) UpdateNote(ctx context.Context, n *models.Note) error {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ?, tags = ?, is_pinned = ?, updated_at = ? WHERE id = ?",
		n.Title, n.Content, tags, n.IsPinned, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Row may still exist when the update is a no-op, but the
		// handlers always load the note first, so absence means gone.
		if _, err := s.NoteByID(ctx, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQLNoteStore) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *MySQLNoteStore) NotesByUser(ctx context.Context, userID int) ([]models.Note, error) {
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY is_pinned DESC, updated_at DESC",
		userID)
}

func (s *MySQLNoteStore) SearchNotes(ctx context.Context, userID int, query string) ([]models.Note, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? AND (LOWER(title) LIKE ? OR LOWER(content) LIKE ?) ORDER BY is_pinned DESC, updated_at DESC",
		userID, pattern, pattern)
}

func (s *MySQLNoteStore) queryNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n := models.Note{}
		var tags []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &tags, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if err := decodeTags(tags, &n); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return notes, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

func decodeTags(raw []byte, n *models.Note) error {
	n.Tags = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &n.Tags); err != nil {
		return fmt.Errorf("decode tags for note %s: %w", n.ID, err)
	}
	return nil
}
