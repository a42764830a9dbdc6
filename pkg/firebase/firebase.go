// Package firebase verifies Firebase ID tokens for federated login.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no credentials path is given.
var ErrNotConfigured = errors.New("firebase credentials path not provided")

// Identity is the signed-in Firebase account behind an ID token.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// IdentityFromToken reads the uid and the optional email and name claims.
func IdentityFromToken(token *auth.Token) *Identity {
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	return &Identity{UID: token.UID, Email: email, Name: name}
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier checks ID tokens against the project of the credentials file.
type Verifier struct {
	client tokenVerifier
}

// Verify validates idToken and returns its identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return IdentityFromToken(token), nil
}

// InitFirebase initializes the Firebase app from a service account file and
// returns a Verifier over its auth client.
func InitFirebase(ctx context.Context, credentialsPath string) (*Verifier, error) {
	if credentialsPath == "" {
		return nil, ErrNotConfigured
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &Verifier{client: authClient}, nil
}
