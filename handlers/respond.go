package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"notekeeper/apperr"
)

type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func fail(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"success": false, "message": message})
}

// storeFail maps taxonomy errors to client responses. Anything outside the
// taxonomy is logged in full and surfaced as a 500; in production the
// client only sees a generic message.
func storeFail(w http.ResponseWriter, log *slog.Logger, production bool, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		fail(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, apperr.ErrForbidden):
		fail(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrDuplicateEmail):
		fail(w, http.StatusConflict, "email already in use")
	default:
		log.Error("store operation failed", "error", err)
		message := "something went wrong"
		if !production {
			message = err.Error()
		}
		fail(w, http.StatusInternalServerError, message)
	}
}
