package security

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingEmail  = errors.New("token carries no email claim")
	ErrMissingBearer = errors.New("missing bearer credential")
)

// Identity is what a verified credential proves about the caller. Email is the
// key accounts are registered under.
type Identity struct {
	Subject string
	Email   string
}

// IdentityVerifier turns a bearer credential into an Identity
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}
