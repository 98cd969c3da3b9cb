package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenTTL bounds how long a password reset link stays usable.
const ResetTokenTTL = 15 * time.Minute

var ErrInvalidResetToken = errors.New("invalid or expired token")

// generateRandomToken returns 32 bytes of cryptographically secure entropy,
// base64 encoded, for use as an opaque bearer credential.
func generateRandomToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(tokenBytes), nil
}

// ResetTokenClaims are carried inside a password reset token.
type ResetTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ResetTokenManager issues and verifies short-lived signed tokens for the
// password reset flow. Tokens are stateless: there is no revocation list, so
// security rests on the short expiry plus the fact that a completed reset
// invalidates every session of the user.
type ResetTokenManager struct {
	secretKey []byte
}

// NewResetTokenManager creates a new ResetTokenManager
func NewResetTokenManager(secretKey string) *ResetTokenManager {
	return &ResetTokenManager{
		secretKey: []byte(secretKey),
	}
}

// Issue creates a signed token embedding the user's id and email.
func (tm *ResetTokenManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := ResetTokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Verify checks the token's signature and expiry and returns its claims.
// Every failure mode surfaces as the same ErrInvalidResetToken so callers
// cannot tell which check failed.
func (tm *ResetTokenManager) Verify(tokenString string) (*ResetTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidResetToken
		}
		return tm.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidResetToken
	}

	claims, ok := token.Claims.(*ResetTokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidResetToken
	}
	return claims, nil
}
