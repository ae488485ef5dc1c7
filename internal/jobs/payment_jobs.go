package jobs

import (
	"context"

	"assetdesk-backend/internal/logger"
)

// ReconcilePayments finishes seat credits for paid orders that were never
// marked credited, e.g. after a crash between the paid transition and the
// credit. Crediting is idempotent per order, so overlapping runs are safe.
func (jr *JobRunner) ReconcilePayments() {
	jr.runWithRecovery(JobReconcilePayments, func(ctx context.Context) {
		grace := jr.config.CreditGrace()
		credited, err := jr.services.Payments.ReconcileUncredited(ctx, grace)
		if err != nil {
			logger.Error("Failed to reconcile some payment orders", "credited", credited, "error", err)
			return
		}
		logger.Info("Reconciled uncredited payment orders", "credited", credited, "grace", grace)
	})
}
