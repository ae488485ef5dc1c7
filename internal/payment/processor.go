package payment

import (
	"context"
	"errors"
)

var (
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// EventCheckoutCompleted is the only webhook event the backend acts on
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutRequest describes one hosted checkout for a seat package
type CheckoutRequest struct {
	OrderID     string
	HRID        string
	HREmail     string
	PackageID   string
	PackageName string
	AmountCents int64
	Currency    string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the processor's view of a checkout session
type SessionStatus struct {
	ID            string
	Paid          bool
	TransactionID string
	Metadata      map[string]string
}

type WebhookEvent struct {
	Type      string
	SessionID string
}

// Processor is the external payment processor
type Processor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
