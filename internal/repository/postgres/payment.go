package postgres

import (
	"context"
	"database/sql"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const orderColumns = `id, hr_id, package_id, package_name, seats_granted, amount_cents, currency, external_session_id, status, tracking_id, external_transaction_id, created_at, paid_at, credited_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.PaymentOrder, error) {
	o := &domain.PaymentOrder{}
	var trackingID, transactionID sql.NullString
	var paidAt, creditedAt sql.NullTime
	err := row.Scan(&o.ID, &o.HRID, &o.PackageID, &o.PackageName, &o.SeatsGranted, &o.AmountCents, &o.Currency, &o.ExternalSessionID, &o.Status,
		&trackingID, &transactionID, &o.CreatedAt, &paidAt, &creditedAt)
	if err != nil {
		return nil, err
	}
	if trackingID.Valid {
		o.TrackingID = &trackingID.String
	}
	if transactionID.Valid {
		o.ExternalTransactionID = &transactionID.String
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if creditedAt.Valid {
		o.CreditedAt = &creditedAt.Time
	}
	return o, nil
}

func (r *paymentRepository) Create(ctx context.Context, o *domain.PaymentOrder) error {
	query := `INSERT INTO payment_orders (id, hr_id, package_id, package_name, seats_granted, amount_cents, currency, external_session_id, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.DatabaseCall("payment_orders.create", query, "hr_id", o.HRID, "session_id", o.ExternalSessionID)
	_, err := r.db.ExecContext(ctx, query, o.ID, o.HRID, o.PackageID, o.PackageName, o.SeatsGranted, o.AmountCents, o.Currency, o.ExternalSessionID, o.Status, o.CreatedAt)
	logger.DatabaseResult("payment_orders.create", 1, err)
	return err
}

func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE external_session_id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, sessionID string, stamp domain.PaidStamp) (bool, error) {
	query := `UPDATE payment_orders SET status = 'paid', tracking_id = $2, external_transaction_id = $3, paid_at = $4
	          WHERE external_session_id = $1 AND status = 'pending'`
	logger.DatabaseCall("payment_orders.mark_paid", query, "session_id", sessionID)
	res, err := r.db.ExecContext(ctx, query, sessionID, stamp.TrackingID, stamp.ExternalTransactionID, stamp.PaidAt)
	if err != nil {
		logger.DatabaseResult("payment_orders.mark_paid", 0, err)
		return false, err
	}
	n, err := rowsAffected("payment_orders.mark_paid", res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *paymentRepository) MarkCredited(ctx context.Context, orderID string, at time.Time) error {
	query := `UPDATE payment_orders SET credited_at = $2 WHERE id = $1 AND credited_at IS NULL`
	logger.DatabaseCall("payment_orders.mark_credited", query, "order_id", orderID)
	res, err := r.db.ExecContext(ctx, query, orderID, at)
	if err != nil {
		logger.DatabaseResult("payment_orders.mark_credited", 0, err)
		return err
	}
	_, err = rowsAffected("payment_orders.mark_credited", res)
	return err
}

func (r *paymentRepository) ListUncredited(ctx context.Context, paidBefore time.Time) ([]domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders
	          WHERE status = 'paid' AND credited_at IS NULL AND paid_at < $1
	          ORDER BY paid_at ASC`
	rows, err := r.db.QueryContext(ctx, query, paidBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.PaymentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
