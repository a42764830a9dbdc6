// Package resettoken issues and verifies signed password reset tokens.
package resettoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Purpose is the audience every reset token is bound to, so tokens signed
// with the same secret for other uses are rejected.
const Purpose = "password-reset"

var (
	ErrTokenExpired = errors.New("reset token expired")
	ErrTokenInvalid = errors.New("reset token invalid")
)

// Signer creates and checks reset tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer whose tokens live for ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token carrying email.
func (s *Signer) Generate(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Audience:  jwt.ClaimStrings{Purpose},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

// Verify returns the email of a valid token. It fails with ErrTokenExpired or
// ErrTokenInvalid.
func (s *Signer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || !claims.VerifyAudience(Purpose, true) || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
