package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"notekeeper/apperr"
	"notekeeper/models"
	"notekeeper/store"
	"notekeeper/token"
)

type contextKey string

const sessionUserKey contextKey = "sessionUser"

// WithUser attaches the authenticated user to the context. Exported so
// handler tests can simulate an authenticated request.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, sessionUserKey, u)
}

// SessionUser returns the authenticated user attached by RequireAuth.
func SessionUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(sessionUserKey).(*models.User)
	return u, ok
}

type Auth struct {
	Tokens *token.Manager
	Users  store.UserStore
	Log    *slog.Logger
}

// RequireAuth validates the session cookie, resolves the user it names and
// attaches the user to the request context. Stale or tampered cookies are
// cleared so the client falls back to the login flow.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := a.Tokens.FromRequest(r)
		if err != nil {
			a.unauthorized(w, "authentication required", false)
			return
		}

		userID, err := a.Tokens.Parse(raw)
		if err != nil {
			a.Log.Warn("rejected session token", "error", err)
			a.unauthorized(w, "session expired or invalid", true)
			return
		}

		user, err := a.Users.UserByID(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				a.Log.Error("session user lookup failed", "error", err, "user_id", userID)
			}
			a.unauthorized(w, "session expired or invalid", true)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Auth) unauthorized(w http.ResponseWriter, message string, clearCookie bool) {
	if clearCookie {
		a.Tokens.ClearCookie(w)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
