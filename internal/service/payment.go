package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetdesk-backend/internal/clock"
	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/payment"
	"assetdesk-backend/internal/repository"
)

type paymentReconciler struct {
	orders      repository.PaymentRepository
	packages    repository.PackageRepository
	accounts    repository.AccountRepository
	entitlement EntitlementLedger
	processor   payment.Processor
	clock       clock.Clock
	currency    string
}

func NewPaymentReconciler(
	orders repository.PaymentRepository,
	packages repository.PackageRepository,
	accounts repository.AccountRepository,
	entitlement EntitlementLedger,
	processor payment.Processor,
	clk clock.Clock,
	currency string,
) PaymentReconciler {
	return &paymentReconciler{
		orders:      orders,
		packages:    packages,
		accounts:    accounts,
		entitlement: entitlement,
		processor:   processor,
		clock:       clk,
		currency:    currency,
	}
}

func (s *paymentReconciler) CreateOrder(ctx context.Context, hrID, packageID string) (*CheckoutResult, error) {
	logger.EnterMethod("paymentReconciler.CreateOrder", "hr_id", hrID, "package_id", packageID)

	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		logger.ExitMethodWithError("paymentReconciler.CreateOrder", err, domain.IsBusinessRule(err))
		return nil, err
	}
	hr, err := s.accounts.GetByID(ctx, hrID)
	if err != nil {
		logger.ExitMethodWithError("paymentReconciler.CreateOrder", err, domain.IsBusinessRule(err))
		return nil, err
	}

	order := &domain.PaymentOrder{
		ID:           uuid.NewString(),
		HRID:         hr.ID,
		PackageID:    pkg.ID,
		PackageName:  pkg.Name,
		SeatsGranted: pkg.EmployeeLimit,
		AmountCents:  pkg.PriceCents,
		Currency:     s.currency,
		Status:       domain.PaymentStatusPending,
		CreatedAt:    s.clock.Now(),
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		OrderID:     order.ID,
		HRID:        hr.ID,
		HREmail:     hr.Email,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		AmountCents: pkg.PriceCents,
		Currency:    s.currency,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
		logger.ExitMethodWithError("paymentReconciler.CreateOrder", err, false)
		return nil, err
	}
	order.ExternalSessionID = sess.ID

	if err := s.orders.Create(ctx, order); err != nil {
		logger.ExitMethodWithError("paymentReconciler.CreateOrder", err, false)
		return nil, err
	}

	logger.ExitMethod("paymentReconciler.CreateOrder", "order_id", order.ID, "session_id", sess.ID)
	return &CheckoutResult{Order: order, CheckoutURL: sess.URL}, nil
}

func (s *paymentReconciler) Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	logger.EnterMethod("paymentReconciler.Confirm", "session_id", sessionID)

	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}

	order, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		logger.ExitMethodWithError("paymentReconciler.Confirm", err, domain.IsBusinessRule(err))
		return nil, err
	}
	if order.Status == domain.PaymentStatusPaid {
		return s.alreadyApplied(ctx, order)
	}

	st, err := s.processor.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			err = domain.ErrOrderNotFound
		} else {
			err = fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
		}
		logger.ExitMethodWithError("paymentReconciler.Confirm", err, domain.IsBusinessRule(err))
		return nil, err
	}
	if !st.Paid {
		logger.ExitMethodWithError("paymentReconciler.Confirm", domain.ErrPaymentNotCompleted, true)
		return nil, domain.ErrPaymentNotCompleted
	}

	now := s.clock.Now()
	stamp := domain.PaidStamp{
		TrackingID:            newTrackingID(now),
		ExternalTransactionID: st.TransactionID,
		PaidAt:                now,
	}
	changed, err := s.orders.MarkPaid(ctx, sessionID, stamp)
	if err != nil {
		logger.ExitMethodWithError("paymentReconciler.Confirm", err, false)
		return nil, err
	}
	if !changed {
		// Someone else won the pending → paid transition.
		order, err = s.orders.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return s.alreadyApplied(ctx, order)
	}

	order.Status = domain.PaymentStatusPaid
	order.TrackingID = &stamp.TrackingID
	order.ExternalTransactionID = &stamp.ExternalTransactionID
	order.PaidAt = &stamp.PaidAt

	// The order is durably paid; the credit must not be abandoned with the caller.
	if err := s.credit(context.WithoutCancel(ctx), order); err != nil {
		incErr := &domain.InconsistencyError{
			Op:       "confirm",
			Entity:   "payment_order",
			EntityID: order.ID,
			Cause:    errors.New("order paid but seats not credited"),
			Err:      err,
		}
		logger.Inconsistency(ctx, "confirm", err, "order_id", order.ID, "hr_id", order.HRID, "seats", order.SeatsGranted)
		return nil, incErr
	}

	logger.ExitMethod("paymentReconciler.Confirm", "order_id", order.ID, "applied", true)
	return &ConfirmResult{Order: order, Applied: true}, nil
}

// alreadyApplied answers a replayed confirmation. If the earlier call crashed
// between the status change and the credit, the credit is finished here;
// CreditSeats is idempotent per order so this never double-credits.
func (s *paymentReconciler) alreadyApplied(ctx context.Context, order *domain.PaymentOrder) (*ConfirmResult, error) {
	if order.CreditedAt == nil {
		if err := s.credit(context.WithoutCancel(ctx), order); err != nil {
			logger.Warn("Credit of paid order still pending", "order_id", order.ID, "error", err)
		}
	}
	logger.ExitMethod("paymentReconciler.Confirm", "order_id", order.ID, "applied", false)
	return &ConfirmResult{Order: order, Applied: false}, nil
}

func (s *paymentReconciler) credit(ctx context.Context, order *domain.PaymentOrder) error {
	if _, err := s.entitlement.CreditSeats(ctx, order.HRID, order.SeatsGranted, order.PackageName, order.ID); err != nil {
		return err
	}
	now := s.clock.Now()
	if err := s.orders.MarkCredited(ctx, order.ID, now); err != nil {
		return fmt.Errorf("mark order %s credited: %w", order.ID, err)
	}
	order.CreditedAt = &now
	return nil
}

func (s *paymentReconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if ev.Type != payment.EventCheckoutCompleted {
		logger.Debug("Ignoring webhook event", "type", ev.Type)
		return nil
	}

	_, err = s.Confirm(ctx, ev.SessionID)
	if errors.Is(err, domain.ErrPaymentNotCompleted) {
		// Delayed payment methods complete the session before the money arrives.
		logger.Info("Checkout completed without payment, waiting for confirmation", "session_id", ev.SessionID)
		return nil
	}
	return err
}

func (s *paymentReconciler) ReconcileUncredited(ctx context.Context, olderThan time.Duration) (int, error) {
	orders, err := s.orders.ListUncredited(ctx, s.clock.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	credited := 0
	var errs []error
	for i := range orders {
		order := &orders[i]
		if err := s.credit(ctx, order); err != nil {
			logger.Inconsistency(ctx, "reconcile_payments", err, "order_id", order.ID, "hr_id", order.HRID)
			errs = append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		logger.Info("Reconciled uncredited order", "order_id", order.ID, "hr_id", order.HRID)
		credited++
	}
	return credited, errors.Join(errs...)
}

// newTrackingID returns TRK-<year>-<8 upper-case hex digits>
func newTrackingID(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TRK-%d-%s", now.Year(), strings.ToUpper(raw[:8]))
}
