package resettoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	s := NewSigner("secret", time.Hour)

	token, err := s.Generate("alice@example.com")
	require.NoError(t, err)

	email, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.Generate("alice@example.com")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewSigner("secret", time.Hour).Generate("alice@example.com")
	require.NoError(t, err)

	_, err = NewSigner("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsOtherAudience(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		Audience:  jwt.ClaimStrings{"session"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewSigner("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewSigner("secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
