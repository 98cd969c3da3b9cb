package models

import (
	"time"
)

// Session binds a user to one access/refresh token pair. At most one session
// per user is current: login and refresh both delete any prior session before
// creating a new one, so signing in on a second device signs out the first.
type Session struct {
	ID                     string    `json:"id" db:"id"`
	UserID                 string    `json:"userId" db:"user_id"`
	AccessToken            string    `json:"-" db:"access_token"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	AccessTokenValidUntil  time.Time `json:"accessTokenValidUntil" db:"access_token_valid_until"`
	RefreshTokenValidUntil time.Time `json:"refreshTokenValidUntil" db:"refresh_token_valid_until"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}
