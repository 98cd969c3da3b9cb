package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSetSessionCookiesDevelopmentMode(t *testing.T) {
	transport := NewCookieTransport(false)
	rec := httptest.NewRecorder()

	transport.SetSessionCookies(rec, "access-val", "refresh-val", "session-val")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 3)

	access := cookieByName(cookies, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "access-val", access.Value)
	assert.Equal(t, int(AccessTokenTTL/time.Second), access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite, "SameSite=None without Secure would be rejected by browsers")
	assert.Equal(t, "/", access.Path)

	refresh := cookieByName(cookies, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-val", refresh.Value)
	assert.Equal(t, int(RefreshTokenTTL/time.Second), refresh.MaxAge)

	sessionID := cookieByName(cookies, SessionIDCookie)
	require.NotNil(t, sessionID)
	assert.Equal(t, "session-val", sessionID.Value)
	assert.Equal(t, int(RefreshTokenTTL/time.Second), sessionID.MaxAge, "session id cookie lives as long as the refresh token")
}

func TestSetSessionCookiesProductionMode(t *testing.T) {
	transport := NewCookieTransport(true)
	rec := httptest.NewRecorder()

	transport.SetSessionCookies(rec, "a", "r", "s")

	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.Secure, "cookie %s must be secure in production", c.Name)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite, "cross-site frontend needs SameSite=None")
	}
}

func TestClearSessionCookies(t *testing.T) {
	transport := NewCookieTransport(false)
	rec := httptest.NewRecorder()

	transport.ClearSessionCookies(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0, "cookie %s must be expired", c.Name)
	}
}

func TestReadSessionCookies(t *testing.T) {
	transport := NewCookieTransport(false)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: SessionIDCookie, Value: "sid-1"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "rt-1"})

	sessionID, refreshToken := transport.ReadSessionCookies(req)
	assert.Equal(t, "sid-1", sessionID)
	assert.Equal(t, "rt-1", refreshToken)

	empty := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	sessionID, refreshToken = transport.ReadSessionCookies(empty)
	assert.Empty(t, sessionID)
	assert.Empty(t, refreshToken)
}
