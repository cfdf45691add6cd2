package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"notekeeper/apperr"
	"notekeeper/models"
)

// MemoryStore backs both store interfaces with maps. Used by tests.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
	notes  map[string]*models.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		users:  map[int]*models.User{},
		notes:  map[string]*models.Note{},
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, apperr.ErrDuplicateEmail
		}
	}
	clone := *u
	clone.ID = s.nextID
	clone.CreatedAt = time.Now().UTC()
	s.nextID++
	s.users[clone.ID] = &clone

	out := clone
	return &out, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryStore) UserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *u
	return &out, nil
}

// DeleteUser exists so tests can simulate a token outliving its account.
func (s *MemoryStore) DeleteUser(_ context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *MemoryStore) CreateNote(_ context.Context, n *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *n
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.Tags = cloneTags(n.Tags)
	s.notes[clone.ID] = &clone

	out := clone
	out.Tags = cloneTags(clone.Tags)
	return &out, nil
}

func (s *MemoryStore) NoteByID(_ context.Context, id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *n
	out.Tags = cloneTags(n.Tags)
	return &out, nil
}

func (s *MemoryStore) UpdateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[n.ID]; !ok {
		return apperr.ErrNotFound
	}
	clone := *n
	clone.Tags = cloneTags(n.Tags)
	s.notes[n.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) NotesByUser(_ context.Context, userID int) ([]models.Note, error) {
	return s.collect(userID, func(*models.Note) bool { return true }), nil
}

func (s *MemoryStore) SearchNotes(_ context.Context, userID int, query string) ([]models.Note, error) {
	q := strings.ToLower(query)
	return s.collect(userID, func(n *models.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q)
	}), nil
}

func (s *MemoryStore) collect(userID int, match func(*models.Note) bool) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := []models.Note{}
	for _, n := range s.notes {
		if n.UserID != userID || !match(n) {
			continue
		}
		out := *n
		out.Tags = cloneTags(n.Tags)
		notes = append(notes, out)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
