package auth

import (
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) < 255
}

// ValidatePassword checks if a password is valid
func ValidatePassword(password string) bool {
	// bcrypt truncates input beyond 72 bytes
	return len(password) >= 8 && len(password) <= 72
}
