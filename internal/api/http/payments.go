package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/payment"
	"assetdesk-backend/internal/service"
)

// SignatureHeader carries the processor's webhook signature
const SignatureHeader = "Stripe-Signature"

const maxWebhookBytes = 64 << 10

type CheckoutCreator interface {
	CreateOrder(ctx context.Context, hrID, packageID string) (*service.CheckoutResult, error)
}

type PaymentConfirmer interface {
	Confirm(ctx context.Context, sessionID string) (*service.ConfirmResult, error)
}

type WebhookHandler interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// MockPayer settles a mock checkout session and returns the signed webhook
// delivery for it.
type MockPayer interface {
	Pay(sessionID string) ([]byte, string, error)
}

type checkoutRequest struct {
	PackageID string `json:"package_id"`
}

func HandleCreateCheckout(svc CheckoutCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var req checkoutRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.PackageID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "package_id is required")
			return
		}

		res, err := svc.CreateOrder(r.Context(), hrID, req.PackageID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// HandleConfirmPayment answers 200 for a fresh credit and for a replay; the
// body's "applied" field tells them apart.
func HandleConfirmPayment(svc PaymentConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unauthenticated")
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "session_id is required")
			return
		}

		res, err := svc.Confirm(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if res.Order != nil && res.Order.HRID != account.ID {
			// The credit landed on the order's owner; do not echo it to anyone else.
			logger.Warn("Payment confirmed by a different HR account",
				"session_id", sessionID, "order_hr_id", res.Order.HRID, "caller", account.ID)
			writeServiceError(w, r, domain.ErrForbidden)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func HandlePaymentWebhook(svc WebhookHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

// HandleMockCheckout is the hosted page of the mock processor. Visiting it
// pays the session and delivers the webhook in-process.
func HandleMockCheckout(payer MockPayer, svc WebhookHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["session_id"]

		payload, signature, err := payer.Pay(sessionID)
		if errors.Is(err, payment.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session_not_found", err.Error())
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if err := svc.HandleWebhook(r.Context(), payload, signature); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"session_id": sessionID, "status": "paid"})
	}
}
