package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"notekeeper/middleware"
	"notekeeper/models"
	"notekeeper/store"
)

type NoteHandler struct {
	Notes      store.NoteStore
	Log        *slog.Logger
	Production bool
}

type addNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type editNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

type pinRequest struct {
	IsPinned *bool `json:"isPinned"`
}

func sessionUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.SessionUser(r)
	if !ok {
		fail(w, http.StatusUnauthorized, "authentication required")
	}
	return user, ok
}

// ownedNote loads the target note and enforces ownership: 404 when the note
// does not exist, 403 when it belongs to someone else. Ownership is always
// decided here, never from anything the client sent.
func (h *NoteHandler) ownedNote(w http.ResponseWriter, r *http.Request, userID int) (*models.Note, bool) {
	note, err := h.Notes.NoteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return nil, false
	}
	if note.UserID != userID {
		fail(w, http.StatusForbidden, "you do not own this note")
		return nil, false
	}
	return note, true
}

func (h *NoteHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" {
		fail(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		fail(w, http.StatusBadRequest, "content is required")
		return
	}

	note, err := h.Notes.CreateNote(r.Context(), &models.Note{
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
	})
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusCreated, envelope{"success": true, "note": note})
}

func (h *NoteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req editNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, ok := h.ownedNote(w, r, user.ID)
	if !ok {
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fail(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		note.Title = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			fail(w, http.StatusBadRequest, "content cannot be empty")
			return
		}
		note.Content = content
	}
	if req.Tags != nil {
		note.Tags = normalizeTags(*req.Tags)
	}
	note.UpdatedAt = time.Now().UTC()

	if err := h.Notes.UpdateNote(r.Context(), note); err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "note": note})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	note, ok := h.ownedNote(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Notes.DeleteNote(r.Context(), note.ID); err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "message": "note deleted"})
}

func (h *NoteHandler) UpdatePinned(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsPinned == nil {
		fail(w, http.StatusBadRequest, "isPinned is required")
		return
	}

	note, ok := h.ownedNote(w, r, user.ID)
	if !ok {
		return
	}

	note.IsPinned = *req.IsPinned
	note.UpdatedAt = time.Now().UTC()
	if err := h.Notes.UpdateNote(r.Context(), note); err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "note": note})
}

func (h *NoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	notes, err := h.Notes.NotesByUser(r.Context(), user.ID)
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "notes": notes})
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	notes, err := h.Notes.SearchNotes(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "notes": notes})
}

// normalizeTags trims entries, drops empties and deduplicates while keeping
// first-occurrence order.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
