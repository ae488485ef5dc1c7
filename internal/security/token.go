package security

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "assetdesk"
	tokenAudience = "assetdesk-api"
)

// UserClaims defines the claims of locally issued access tokens
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	IdentityVerifier
	GenerateAccessToken(subject, email string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager returns an HS256 token manager used where Firebase is not
// configured (local development, staging, tests).
func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(subject, email string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := UserClaims{
		Email: strings.ToLower(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (m *tokenManager) Verify(_ context.Context, credential string) (*Identity, error) {
	claims, err := m.ValidateToken(credential)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}
