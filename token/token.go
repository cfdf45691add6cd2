// Package token mints and verifies the signed session tokens and moves them
// through the HTTP-only session cookie.
package token

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notekeeper/apperr"
)

type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewManager configures session tokens. secure controls the cookie's Secure
// flag and switches SameSite from Lax to None for cross-site frontends.
func NewManager(secret string, ttl time.Duration, cookieName string, secure bool) *Manager {
	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) Issue(userID int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates signature and expiry and returns the bound user ID.
func (m *Manager) Parse(tokenStr string) (int, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return 0, apperr.ErrUnauthenticated
	}
	return claims.UserID, nil
}

func (m *Manager) FromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", apperr.ErrUnauthenticated
	}
	return c.Value, nil
}

func (m *Manager) SetCookie(w http.ResponseWriter, tokenStr string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    tokenStr,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	})
}

func (m *Manager) sameSite() http.SameSite {
	// Cross-site cookies require SameSite=None, which browsers only
	// accept over HTTPS.
	if m.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
