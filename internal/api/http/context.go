package http

import (
	"context"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/security"
)

type contextKey int

const (
	identityKey contextKey = iota
	accountKey
)

func withIdentity(ctx context.Context, id *security.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func withAccount(ctx context.Context, acc *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

// IdentityFromContext returns the verified caller identity set by the auth middleware
func IdentityFromContext(ctx context.Context) (*security.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*security.Identity)
	return id, ok && id != nil
}

// AccountFromContext returns the caller's registered account. It is only set
// on routes at member level or above.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	acc, ok := ctx.Value(accountKey).(*domain.Account)
	return acc, ok && acc != nil
}
