package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateRandomToken()
		assert.NoError(t, err)
		// 32 bytes of entropy base64-encode to 44 characters.
		assert.Len(t, token, 44)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestResetTokenIssueAndVerify(t *testing.T) {
	tm := NewResetTokenManager("test-secret")

	token, err := tm.Issue("user-1", "user@example.com")
	assert.NoError(t, err)

	claims, err := tm.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := NewResetTokenManager("secret-a").Issue("user-1", "user@example.com")
	assert.NoError(t, err)

	_, err = NewResetTokenManager("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetTokenTampered(t *testing.T) {
	tm := NewResetTokenManager("test-secret")
	token, err := tm.Issue("user-1", "user@example.com")
	assert.NoError(t, err)

	_, err = tm.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = tm.Verify("not-even-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetTokenExpired(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	claims := ResetTokenClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-45 * time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	// Expiry and signature failures are indistinguishable to callers.
	_, err = NewResetTokenManager(secret).Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	// An unsigned token must never verify, even with a matching payload.
	claims := ResetTokenClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenTTL)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = NewResetTokenManager("test-secret").Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
