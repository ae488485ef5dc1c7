package http

import (
	"context"
	"net/http"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/service"
)

// AccountRegistrar registers the caller's account
type AccountRegistrar interface {
	Register(ctx context.Context, email string, in service.RegisterInput) (*domain.Account, error)
}

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, accountID string, in service.UpdateProfileInput) (*domain.Account, error)
}

// SeatLimitReader reads an HR account's seat counters
type SeatLimitReader interface {
	GetSeatLimit(ctx context.Context, hrID string) (*domain.Account, error)
}

// HandleRegister creates the account for the verified identity. The email is
// always the one proven by the credential.
func HandleRegister(svc AccountRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unauthenticated")
			return
		}

		var in service.RegisterInput
		if !decodeJSON(w, r, &in) {
			return
		}

		account, err := svc.Register(r.Context(), identity.Email, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	}
}

func HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unauthenticated")
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func HandleUpdateProfile(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var in service.UpdateProfileInput
		if !decodeJSON(w, r, &in) {
			return
		}

		account, err := svc.UpdateProfile(r.Context(), accountID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

type seatLimitResponse struct {
	PackageLimit         int32  `json:"package_limit"`
	CurrentEmployeeCount int32  `json:"current_employee_count"`
	SubscriptionTier     string `json:"subscription_tier"`
}

func HandleSeatLimit(svc SeatLimitReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		account, err := svc.GetSeatLimit(r.Context(), hrID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, seatLimitResponse{
			PackageLimit:         account.PackageLimit,
			CurrentEmployeeCount: account.CurrentEmployeeCount,
			SubscriptionTier:     account.SubscriptionTier,
		})
	}
}
