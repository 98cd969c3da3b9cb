package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoteHub-io/notehub/internal/models"
	"github.com/NoteHub-io/notehub/internal/store"
)

func protectedEcho(t *testing.T, st *store.Store) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok, "middleware must put the user id on the context")
		w.Write([]byte(userID))
	})
	return Middleware(st)(echo)
}

func TestMiddlewareAuthenticates(t *testing.T) {
	st := newTestStore(t)
	user, err := st.CreateUser("mw@example.com", "hash", "")
	require.NoError(t, err)
	session, err := NewSessionManager(st).Create(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionIDCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: session.AccessToken})
	rec := httptest.NewRecorder()

	protectedEcho(t, st).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, rec.Body.String())
}

func TestMiddlewareMissingCookies(t *testing.T) {
	st := newTestStore(t)
	h := protectedEcho(t, st)

	// No cookies at all.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":401,"message":"Not authenticated"}`, rec.Body.String())

	// Session id but no access token.
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionIDCookie, Value: "sid"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsWrongAccessToken(t *testing.T) {
	st := newTestStore(t)
	user, err := st.CreateUser("mw@example.com", "hash", "")
	require.NoError(t, err)
	session, err := NewSessionManager(st).Create(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionIDCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "some-other-token"})
	rec := httptest.NewRecorder()

	protectedEcho(t, st).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":401,"message":"Not authenticated"}`, rec.Body.String())
}

func TestMiddlewareExpiredAccessToken(t *testing.T) {
	st := newTestStore(t)
	user, err := st.CreateUser("mw@example.com", "hash", "")
	require.NoError(t, err)

	// Access window closed, refresh window still open: the caller is told to
	// refresh rather than re-authenticate.
	session := &models.Session{
		ID:                     uuid.New().String(),
		UserID:                 user.ID,
		AccessToken:            "expired-access",
		RefreshToken:           "live-refresh",
		AccessTokenValidUntil:  time.Now().Add(-time.Minute),
		RefreshTokenValidUntil: time.Now().Add(23 * time.Hour),
		CreatedAt:              time.Now().Add(-16 * time.Minute),
	}
	require.NoError(t, st.CreateSession(session))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionIDCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: session.AccessToken})
	rec := httptest.NewRecorder()

	protectedEcho(t, st).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":401,"message":"Access token expired"}`, rec.Body.String())
}
