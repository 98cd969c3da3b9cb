package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NoteHub-io/notehub/internal/database"
	"github.com/NoteHub-io/notehub/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoteNotFound    = errors.New("note not found")
)

// Store handles all database operations
type Store struct {
	db     *sql.DB
	dbType string
}

// New creates a new store instance
func New(db *database.DB) *Store {
	return &Store{db: db.Conn, dbType: db.Type}
}

// placeholder returns the n-th positional placeholder for the active dialect.
func (s *Store) placeholder(n int) string {
	if s.dbType == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// bind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) bind(query string) string {
	if s.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// --- Users ---

// CreateUser creates a new user. Username defaults to the email and the
// avatar to the placeholder image when not provided.
func (s *Store) CreateUser(email, passwordHash, username string) (*models.User, error) {
	var exists bool
	err := s.db.QueryRow(s.bind("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"), email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if username == "" {
		username = email
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		Avatar:    models.DefaultAvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Exec(
		s.bind("INSERT INTO users (id, username, email, password, avatar, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"),
		user.ID, user.Username, user.Email, user.Password, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser("email = ?", email)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(id string) (*models.User, error) {
	return s.getUser("id = ?", id)
}

func (s *Store) getUser(where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(
		s.bind("SELECT id, username, email, password, avatar, created_at, updated_at FROM users WHERE "+where),
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(userID, passwordHash string) error {
	result, err := s.db.Exec(
		s.bind("UPDATE users SET password = ?, updated_at = ? WHERE id = ?"),
		passwordHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserAvatar stores a new avatar URL and returns the updated user.
func (s *Store) UpdateUserAvatar(userID, avatarURL string) (*models.User, error) {
	result, err := s.db.Exec(
		s.bind("UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?"),
		avatarURL, time.Now().UTC(), userID,
	)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUserByID(userID)
}

// --- Sessions ---

// CreateSession persists a new session row.
func (s *Store) CreateSession(session *models.Session) error {
	_, err := s.db.Exec(
		s.bind(`INSERT INTO sessions
			(id, user_id, access_token, refresh_token, access_token_valid_until, refresh_token_valid_until, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
		session.ID, session.UserID, session.AccessToken, session.RefreshToken,
		session.AccessTokenValidUntil, session.RefreshTokenValidUntil, session.CreatedAt,
	)
	return err
}

// GetSessionByID retrieves a session by its id.
func (s *Store) GetSessionByID(sessionID string) (*models.Session, error) {
	return s.getSession("id = ?", sessionID)
}

// GetSessionForRefresh retrieves a session matching both the session id and
// the refresh token exactly. The double-keyed lookup is the anti-forgery
// check: a stolen session id alone cannot refresh.
func (s *Store) GetSessionForRefresh(sessionID, refreshToken string) (*models.Session, error) {
	return s.getSession("id = ? AND refresh_token = ?", sessionID, refreshToken)
}

func (s *Store) getSession(where string, args ...interface{}) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.QueryRow(
		s.bind(`SELECT id, user_id, access_token, refresh_token, access_token_valid_until, refresh_token_valid_until, created_at
			FROM sessions WHERE `+where),
		args...,
	).Scan(&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken,
		&session.AccessTokenValidUntil, &session.RefreshTokenValidUntil, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session by id. Deleting a session that does not
// exist is not an error.
func (s *Store) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(s.bind("DELETE FROM sessions WHERE id = ?"), sessionID)
	return err
}

// DeleteUserSessions removes every session belonging to the user.
func (s *Store) DeleteUserSessions(userID string) error {
	_, err := s.db.Exec(s.bind("DELETE FROM sessions WHERE user_id = ?"), userID)
	return err
}

// --- Notes ---

// NoteFilter narrows ListNotes results.
type NoteFilter struct {
	Tag     string
	Search  string
	Page    int
	PerPage int
}

// CreateNote persists a new note owned by userID.
func (s *Store) CreateNote(userID string, note *models.Note) (*models.Note, error) {
	now := time.Now().UTC()
	note.ID = uuid.New().String()
	note.UserID = userID
	if note.Tag == "" {
		note.Tag = models.DefaultNoteTag
	}
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := s.db.Exec(
		s.bind("INSERT INTO notes (id, user_id, title, content, tag, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"),
		note.ID, note.UserID, note.Title, note.Content, note.Tag, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote retrieves a note by id, scoped to its owner.
func (s *Store) GetNote(userID, noteID string) (*models.Note, error) {
	note := &models.Note{}
	err := s.db.QueryRow(
		s.bind("SELECT id, user_id, title, content, tag, created_at, updated_at FROM notes WHERE id = ? AND user_id = ?"),
		noteID, userID,
	).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tag, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListNotes returns a page of the user's notes, newest first, with the total
// count of matches.
func (s *Store) ListNotes(userID string, filter NoteFilter) ([]*models.Note, int, error) {
	where := "user_id = " + s.placeholder(1)
	args := []interface{}{userID}

	if filter.Tag != "" {
		where += " AND tag = " + s.placeholder(len(args)+1)
		args = append(args, filter.Tag)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		p1 := s.placeholder(len(args) + 1)
		p2 := s.placeholder(len(args) + 2)
		where += fmt.Sprintf(" AND (LOWER(title) LIKE %s OR LOWER(content) LIKE %s)", p1, p2)
		pattern := "%" + strings.ToLower(q) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM notes WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := s.placeholder(len(args) + 1)
	offset := s.placeholder(len(args) + 2)
	query := fmt.Sprintf(
		"SELECT id, user_id, title, content, tag, created_at, updated_at FROM notes WHERE %s ORDER BY created_at DESC, id LIMIT %s OFFSET %s",
		where, limit, offset,
	)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note := &models.Note{}
		err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tag, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, note)
	}
	return notes, total, rows.Err()
}

// NoteUpdate carries the mutable note fields; nil means leave unchanged.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tag     *string
}

// UpdateNote applies a partial update to the user's note and returns the
// updated row.
func (s *Store) UpdateNote(userID, noteID string, update NoteUpdate) (*models.Note, error) {
	note, err := s.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	if update.Tag != nil {
		note.Tag = *update.Tag
	}
	note.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(
		s.bind("UPDATE notes SET title = ?, content = ?, tag = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
		note.Title, note.Content, note.Tag, note.UpdatedAt, noteID, userID,
	)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes the user's note and returns the deleted row.
func (s *Store) DeleteNote(userID, noteID string) (*models.Note, error) {
	note, err := s.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(s.bind("DELETE FROM notes WHERE id = ? AND user_id = ?"), noteID, userID)
	if err != nil {
		return nil, err
	}
	return note, nil
}
