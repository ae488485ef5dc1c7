package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/security"
	"assetdesk-backend/internal/service"
)

// AuthMiddleware authenticates requests according to the security level of
// the matched route. Route names come from config.EndpointSecurityConfig.
type AuthMiddleware struct {
	verifier security.IdentityVerifier
	accounts service.AccountService
}

func NewAuthMiddleware(verifier security.IdentityVerifier, accounts service.AccountService) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, accounts: accounts}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeName := ""
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}
		level := config.GetSecurityLevel(routeName)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, err.Error())
			return
		}

		identity, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			logger.Debug("Credential rejected", "route", routeName, "error", err)
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid credential")
			return
		}

		ctx := withIdentity(r.Context(), identity)
		if level == config.SecurityIdentified {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		account, err := m.accounts.GetByEmail(ctx, identity.Email)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				writeError(w, http.StatusForbidden, codeNotRegistered, "account is not registered")
				return
			}
			writeServiceError(w, r, err)
			return
		}

		if level == config.SecurityHR && !account.IsHR() {
			writeError(w, http.StatusForbidden, codeForbidden, "hr role required")
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(ctx, account)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", security.ErrMissingBearer
	}
	token := header
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", security.ErrMissingBearer
	}
	return token, nil
}

// RequestLogger logs basic request details and latency
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
