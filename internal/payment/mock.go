package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"assetdesk-backend/internal/logger"
)

type mockSession struct {
	status SessionStatus
	req    CheckoutRequest
}

// MockProcessor keeps checkout sessions in memory. Sessions are paid through
// the mock checkout HTTP route; no money moves. Its webhooks are Stripe-format
// events signed with the configured secret.
type MockProcessor struct {
	mu            sync.RWMutex
	baseURL       string
	webhookSecret string
	sessions      map[string]*mockSession
}

func NewMockProcessor(baseURL, webhookSecret string) *MockProcessor {
	return &MockProcessor{
		baseURL:       strings.TrimRight(baseURL, "/"),
		webhookSecret: webhookSecret,
		sessions:      make(map[string]*mockSession),
	}
}

func (m *MockProcessor) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	id := "cs_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	m.mu.Lock()
	m.sessions[id] = &mockSession{
		req: req,
		status: SessionStatus{
			ID: id,
			Metadata: map[string]string{
				"order_id":   req.OrderID,
				"package_id": req.PackageID,
				"hr_id":      req.HRID,
			},
		},
	}
	m.mu.Unlock()

	logger.Debug("Mock checkout session created", "session_id", id, "order_id", req.OrderID)
	return &CheckoutSession{ID: id, URL: fmt.Sprintf("%s/payments/mock/%s/pay", m.baseURL, id)}, nil
}

func (m *MockProcessor) RetrieveSession(_ context.Context, sessionID string) (*SessionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	st := s.status
	return &st, nil
}

// Pay marks a session paid and returns the webhook payload and signature a
// real processor would deliver for it.
func (m *MockProcessor) Pay(sessionID string) ([]byte, string, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, "", ErrSessionNotFound
	}
	if !s.status.Paid {
		s.status.Paid = true
		s.status.TransactionID = "pi_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	metadata := s.status.Metadata
	m.mu.Unlock()

	raw, err := json.Marshal(stripe.CheckoutSession{
		ID:            sessionID,
		Object:        "checkout.session",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      metadata,
	})
	if err != nil {
		return nil, "", err
	}
	payload, err := json.Marshal(stripe.Event{
		ID:         "evt_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Object:     "event",
		Type:       stripe.EventTypeCheckoutSessionCompleted,
		APIVersion: stripe.APIVersion,
		Data:       &stripe.EventData{Raw: raw},
	})
	if err != nil {
		return nil, "", err
	}

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  m.webhookSecret,
	})
	return signed.Payload, signed.Header, nil
}

func (m *MockProcessor) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseCheckoutEvent(payload, signature, m.webhookSecret)
}
