package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/NoteHub-io/notehub/internal/apierr"
	"github.com/NoteHub-io/notehub/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ResetMailer dispatches password reset emails.
type ResetMailer interface {
	SendPasswordReset(to, username, resetLink string) error
}

// Auth bundles the collaborators behind the /auth endpoints.
type Auth struct {
	Store     *store.Store
	Sessions  *SessionManager
	Cookies   *CookieTransport
	Tokens    *ResetTokenManager
	Mailer    ResetMailer
	AppDomain string
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterHandler handles user registration
func (a *Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if !ValidateEmail(req.Email) {
		apierr.Write(w, apierr.BadRequest("A valid email is required"))
		return
	}
	if !ValidatePassword(req.Password) {
		apierr.Write(w, apierr.BadRequest("Password must be at least 8 characters"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	user, err := a.Store.CreateUser(req.Email, string(hashed), "")
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			apierr.Write(w, apierr.BadRequest("Email in use"))
			return
		}
		log.Printf("Registration failed: %v", err)
		apierr.Write(w, err)
		return
	}

	session, err := a.Sessions.Create(user.ID)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		apierr.Write(w, err)
		return
	}

	a.Cookies.SetSessionCookies(w, session.AccessToken, session.RefreshToken, session.ID)
	writeJSON(w, http.StatusCreated, user)
}

// LoginHandler handles user login. A missing account and a wrong password
// produce the same error so the endpoint cannot be used to probe which
// emails are registered.
func (a *Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}

	user, err := a.Store.GetUserByEmail(req.Email)
	if err != nil {
		apierr.Write(w, apierr.Unauthorized("Invalid credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		apierr.Write(w, apierr.Unauthorized("Invalid credentials"))
		return
	}

	// One current session per user: drop any prior session before creating
	// the new one.
	if err := a.Sessions.InvalidateUser(user.ID); err != nil {
		apierr.Write(w, err)
		return
	}
	session, err := a.Sessions.Create(user.ID)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		apierr.Write(w, err)
		return
	}

	a.Cookies.SetSessionCookies(w, session.AccessToken, session.RefreshToken, session.ID)
	writeJSON(w, http.StatusOK, user)
}

// RefreshHandler rotates the session named by the request cookies.
func (a *Auth) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, refreshToken := a.Cookies.ReadSessionCookies(r)

	session, err := a.Sessions.Refresh(sessionID, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			apierr.Write(w, apierr.Unauthorized("Session not found"))
		case errors.Is(err, ErrSessionExpired):
			a.Cookies.ClearSessionCookies(w)
			apierr.Write(w, apierr.Unauthorized("Session token expired"))
		default:
			apierr.Write(w, err)
		}
		return
	}

	a.Cookies.SetSessionCookies(w, session.AccessToken, session.RefreshToken, session.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Session refreshed"})
}

// LogoutHandler deletes the current session, if any, and clears the cookies.
func (a *Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionIDCookie); err == nil && c.Value != "" {
		if err := a.Sessions.Invalidate(c.Value); err != nil {
			apierr.Write(w, err)
			return
		}
	}

	a.Cookies.ClearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// RequestResetEmailHandler issues a reset token and mails it. The response is
// identical whether or not the email belongs to an account.
func (a *Auth) RequestResetEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if !ValidateEmail(req.Email) {
		apierr.Write(w, apierr.BadRequest("A valid email is required"))
		return
	}

	user, err := a.Store.GetUserByEmail(req.Email)
	if err == nil {
		token, err := a.Tokens.Issue(user.ID, user.Email)
		if err != nil {
			apierr.Write(w, err)
			return
		}

		resetLink := fmt.Sprintf("%s/reset-password?token=%s", a.AppDomain, url.QueryEscape(token))
		if err := a.Mailer.SendPasswordReset(user.Email, user.Username, resetLink); err != nil {
			log.Printf("Error sending reset email to %s: %v", user.Email, err)
			apierr.Write(w, apierr.Internal("Failed to send the email, please try again later."))
			return
		}
	} else if !errors.Is(err, store.ErrUserNotFound) {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Reset password email has been successfully sent."})
}

// ResetPasswordHandler verifies a reset token, stores the new password, and
// invalidates every session the user holds.
func (a *Auth) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if !ValidatePassword(req.Password) {
		apierr.Write(w, apierr.BadRequest("Password must be at least 8 characters"))
		return
	}

	claims, err := a.Tokens.Verify(req.Token)
	if err != nil {
		apierr.Write(w, apierr.Unauthorized("Invalid or expired token"))
		return
	}

	// The email in the token must still match the account: it may have
	// changed between issuance and use.
	user, err := a.Store.GetUserByID(claims.Subject)
	if err != nil || user.Email != claims.Email {
		apierr.Write(w, apierr.NotFound("User not found"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	if err := a.Store.UpdateUserPassword(user.ID, string(hashed)); err != nil {
		apierr.Write(w, err)
		return
	}

	// Closing the window: an attacker holding the old password must not be
	// able to keep using an existing session.
	if err := a.Sessions.InvalidateUser(user.ID); err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been successfully reset."})
}
