package security

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"assetdesk-backend/internal/logger"
)

// idTokenVerifier is the part of the Firebase auth client we use
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier builds a verifier for Firebase ID tokens. credentialsFile
// may be empty, in which case application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (IdentityVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	tok, err := v.client.VerifyIDToken(ctx, credential)
	logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	email, _ := tok.Claims["email"].(string)
	if email == "" {
		return nil, ErrMissingEmail
	}
	return &Identity{Subject: tok.UID, Email: strings.ToLower(email)}, nil
}
