package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"assetdesk-backend/internal/logger"
)

// StripeProcessor runs checkouts through Stripe hosted checkout sessions
type StripeProcessor struct {
	sessions      *session.Client
	webhookSecret string
	siteDomain    string
}

func NewStripeProcessor(secretKey, webhookSecret, siteDomain string) *StripeProcessor {
	return &StripeProcessor{
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
		siteDomain:    strings.TrimRight(siteDomain, "/"),
	}
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.PackageName),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.siteDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.siteDomain + "/dashboard/payment-cancel"),
	}
	if req.HREmail != "" {
		params.CustomerEmail = stripe.String(req.HREmail)
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("package_id", req.PackageID)
	params.AddMetadata("hr_id", req.HRID)

	logger.ExternalServiceCall("stripe", "checkout.sessions.create", "order_id", req.OrderID)
	sess, err := p.sessions.New(params)
	logger.ExternalServiceResult("stripe", "checkout.sessions.create", err, "order_id", req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProcessor) RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	logger.ExternalServiceCall("stripe", "checkout.sessions.retrieve", "session_id", sessionID)
	sess, err := p.sessions.Get(sessionID, params)
	logger.ExternalServiceResult("stripe", "checkout.sessions.retrieve", err, "session_id", sessionID)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return toSessionStatus(sess), nil
}

func (p *StripeProcessor) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseCheckoutEvent(payload, signature, p.webhookSecret)
}

// parseCheckoutEvent verifies a Stripe-Signature header and extracts the
// session of a completed checkout. Other event types come back without one.
func parseCheckoutEvent(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{Type: string(event.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = sess.ID
	return out, nil
}

func toSessionStatus(sess *stripe.CheckoutSession) *SessionStatus {
	st := &SessionStatus{
		ID:       sess.ID,
		Paid:     sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		st.TransactionID = sess.PaymentIntent.ID
	}
	return st
}
