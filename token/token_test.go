package token

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager("test-secret", ttl, "access_token", false)
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	signed, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseExpiredToken(t *testing.T) {
	m := newTestManager(-time.Hour)

	signed, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.Error(t, err)
}

func TestParseTamperedToken(t *testing.T) {
	m := newTestManager(time.Hour)

	signed, err := m.Issue(42)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	last := parts[2]
	tampered := parts[0] + "." + parts[1] + "." + last[:len(last)-1] + flipChar(last[len(last)-1])

	_, err = m.Parse(tampered)
	assert.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewManager("other-secret", time.Hour, "access_token", false)

	signed, err := m.Issue(42)
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.Error(t, err)
}

func TestSetCookie(t *testing.T) {
	m := newTestManager(time.Hour)

	rr := httptest.NewRecorder()
	m.SetCookie(rr, "signed-token")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "access_token", c.Name)
	assert.Equal(t, "signed-token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Expires.After(time.Now()))
}

func TestSetCookieSecure(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "access_token", true)

	rr := httptest.NewRecorder()
	m.SetCookie(rr, "signed-token")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
}

func TestClearCookie(t *testing.T) {
	m := newTestManager(time.Hour)

	rr := httptest.NewRecorder()
	m.ClearCookie(rr)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "access_token", c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestFromRequest(t *testing.T) {
	m := newTestManager(time.Hour)

	t.Run("cookie present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "abc"})

		raw, err := m.FromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "abc", raw)
	})

	t.Run("cookie missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)

		_, err := m.FromRequest(req)
		assert.Error(t, err)
	})

	t.Run("cookie blank", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "  "})

		_, err := m.FromRequest(req)
		assert.Error(t, err)
	})
}

func flipChar(b byte) string {
	if b == 'X' {
		return "Y"
	}
	return "X"
}
