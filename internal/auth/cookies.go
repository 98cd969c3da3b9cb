package auth

import (
	"net/http"
)

// Cookie names carrying the session credentials.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	SessionIDCookie    = "sessionId"
)

// CookieTransport serializes session credentials as HTTP cookies. In
// production-like mode cookies are Secure with SameSite=None so the frontend
// can run on a different site; otherwise SameSite=Lax, because browsers
// reject SameSite=None without Secure.
type CookieTransport struct {
	secure bool
}

// NewCookieTransport creates a new CookieTransport
func NewCookieTransport(secure bool) *CookieTransport {
	return &CookieTransport{secure: secure}
}

func (t *CookieTransport) sameSite() http.SameSite {
	if t.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetSessionCookies writes the three session cookies. Cookie lifetimes match
// the session's own validity windows: the access token cookie expires with
// the access token, the refresh and session id cookies with the refresh
// token.
func (t *CookieTransport) SetSessionCookies(w http.ResponseWriter, accessToken, refreshToken, sessionID string) {
	t.set(w, AccessTokenCookie, accessToken, int(AccessTokenTTL.Seconds()))
	t.set(w, RefreshTokenCookie, refreshToken, int(RefreshTokenTTL.Seconds()))
	t.set(w, SessionIDCookie, sessionID, int(RefreshTokenTTL.Seconds()))
}

// ClearSessionCookies removes all three cookies unconditionally.
func (t *CookieTransport) ClearSessionCookies(w http.ResponseWriter) {
	t.set(w, AccessTokenCookie, "", -1)
	t.set(w, RefreshTokenCookie, "", -1)
	t.set(w, SessionIDCookie, "", -1)
}

func (t *CookieTransport) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite(),
	})
}

// ReadSessionCookies extracts the session id and refresh token from the
// request. Missing cookies yield empty strings.
func (t *CookieTransport) ReadSessionCookies(r *http.Request) (sessionID, refreshToken string) {
	if c, err := r.Cookie(SessionIDCookie); err == nil {
		sessionID = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = c.Value
	}
	return sessionID, refreshToken
}
