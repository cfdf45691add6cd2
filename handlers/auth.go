package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"notekeeper/apperr"
	"notekeeper/middleware"
	"notekeeper/models"
	"notekeeper/store"
	"notekeeper/token"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 6

type AuthHandler struct {
	Users      store.UserStore
	Tokens     *token.Manager
	Log        *slog.Logger
	Production bool
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case req.Username == "":
		fail(w, http.StatusBadRequest, "username is required")
		return
	case req.Email == "":
		fail(w, http.StatusBadRequest, "email is required")
		return
	case !emailPattern.MatchString(req.Email):
		fail(w, http.StatusBadRequest, "invalid email address")
		return
	case len(req.Password) < minPasswordLen:
		fail(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}

	user, err := h.Users.CreateUser(r.Context(), &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}

	h.Log.Info("user registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, envelope{"success": true, "user": user})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			storeFail(w, h.Log, h.Production, err)
			return
		}
		// Same response as a wrong password so the check cannot be
		// used to probe for registered emails.
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := h.Tokens.Issue(user.ID)
	if err != nil {
		storeFail(w, h.Log, h.Production, err)
		return
	}

	h.Tokens.SetCookie(w, signed)
	respondJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}

// Signout clears the cookie. Tokens already issued stay valid until expiry;
// there is no server-side revocation.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	h.Tokens.ClearCookie(w)
	respondJSON(w, http.StatusOK, envelope{"success": true, "message": "signed out"})
}

// Me returns the authenticated user, letting the frontend restore its
// session after a reload.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.SessionUser(r)
	if !ok {
		fail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}
