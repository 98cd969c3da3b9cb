package models

import (
	"time"
)

// DefaultAvatarURL is used when a user has not uploaded an avatar yet.
const DefaultAvatarURL = "https://ac.goit.global/fullstack/react/default-avatar.jpg"

// User represents a registered account.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Password hash is never sent to clients
	Avatar    string    `json:"avatar" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
