package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NoteHub-io/notehub/internal/auth"
	"github.com/NoteHub-io/notehub/internal/config"
	"github.com/NoteHub-io/notehub/internal/database"
	"github.com/NoteHub-io/notehub/internal/store"
)

type recordedUpload struct {
	Key         string
	ContentType string
	Body        []byte
}

type fakeUploader struct {
	uploads []recordedUpload
	fail    bool
}

func (u *fakeUploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if u.fail {
		return "", fmt.Errorf("s3: service unavailable")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.uploads = append(u.uploads, recordedUpload{Key: key, ContentType: contentType, Body: body})
	return "https://cdn.example.com/" + key, nil
}

type nullMailer struct{}

func (nullMailer) SendPasswordReset(to, username, resetLink string) error { return nil }

func newTestAPI(t *testing.T) (*Api, *fakeUploader) {
	cfg := &config.Config{APIPort: 3000, JWTSecret: "test-secret", AppDomain: "http://localhost:5173"}
	cfg.CORSOrigin = cfg.AppDomain
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test_api.db")
	cfg.Database.MaxRetries = 1

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := store.New(db)

	uploader := &fakeUploader{}
	a := &auth.Auth{
		Store:     st,
		Sessions:  auth.NewSessionManager(st),
		Cookies:   auth.NewCookieTransport(cfg.IsProduction()),
		Tokens:    auth.NewResetTokenManager(cfg.JWTSecret),
		Mailer:    nullMailer{},
		AppDomain: cfg.AppDomain,
	}

	api, err := NewApi(cfg, st, a, uploader)
	require.NoError(t, err)
	return api, uploader
}

// registerUser signs up a user through the real endpoint and returns the
// session cookies needed to call the protected surface.
func registerUser(t *testing.T, api *Api, email string) []*http.Cookie {
	body := fmt.Sprintf(`{"email":%q,"password":"password1"}`, email)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	return rec.Result().Cookies()
}

func request(t *testing.T, api *Api, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
