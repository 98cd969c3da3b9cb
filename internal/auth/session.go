package auth

import (
	"errors"
	"time"

	"github.com/NoteHub-io/notehub/internal/models"
	"github.com/NoteHub-io/notehub/internal/store"
	"github.com/google/uuid"
)

const (
	// AccessTokenTTL is the access token validity window.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the refresh token validity window. It is always the
	// longer of the two, so an expired refresh token implies an expired
	// access token.
	RefreshTokenTTL = 24 * time.Hour
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session token expired")
)

// SessionManager orchestrates the session lifecycle over the store: creation,
// rotation on refresh, and invalidation. It does not enforce access-token
// expiry; that is the request-authentication middleware's job.
type SessionManager struct {
	store *store.Store
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(s *store.Store) *SessionManager {
	return &SessionManager{store: s}
}

// Create generates fresh access and refresh tokens and persists a new session
// for the user. Callers are responsible for removing stale sessions first.
func (m *SessionManager) Create(userID string) (*models.Session, error) {
	accessToken, err := generateRandomToken()
	if err != nil {
		return nil, err
	}
	refreshToken, err := generateRandomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		AccessTokenValidUntil:  now.Add(AccessTokenTTL),
		RefreshTokenValidUntil: now.Add(RefreshTokenTTL),
		CreatedAt:              now,
	}

	if err := m.store.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Refresh rotates a session: the old row is deleted and a brand new session
// (new id, new tokens) is created for the same user. The lookup requires both
// the session id and the exact refresh token. An expired refresh token
// deletes the session and returns ErrSessionExpired.
func (m *SessionManager) Refresh(sessionID, refreshToken string) (*models.Session, error) {
	session, err := m.store.GetSessionForRefresh(sessionID, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if time.Now().After(session.RefreshTokenValidUntil) {
		if err := m.store.DeleteSession(sessionID); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	if err := m.store.DeleteSession(sessionID); err != nil {
		return nil, err
	}
	return m.Create(session.UserID)
}

// Invalidate deletes the session with the given id. Idempotent.
func (m *SessionManager) Invalidate(sessionID string) error {
	return m.store.DeleteSession(sessionID)
}

// InvalidateUser deletes every session belonging to the user. Used on login
// (single session per user) and on password reset.
func (m *SessionManager) InvalidateUser(userID string) error {
	return m.store.DeleteUserSessions(userID)
}
