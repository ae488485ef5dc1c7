package domain

import "time"

// Package is a purchasable seat bundle from the catalogue
type Package struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EmployeeLimit int32  `json:"employee_limit"`
	PriceCents    int64  `json:"price_cents"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentOrder is the idempotency record for one checkout session. It moves
// pending → paid exactly once; CreditedAt is set after the seat credit landed.
type PaymentOrder struct {
	ID                    string        `json:"id"`
	HRID                  string        `json:"hr_id"`
	PackageID             string        `json:"package_id"`
	PackageName           string        `json:"package_name"`
	SeatsGranted          int32         `json:"seats_granted"`
	AmountCents           int64         `json:"amount_cents"`
	Currency              string        `json:"currency"`
	ExternalSessionID     string        `json:"external_session_id"`
	Status                PaymentStatus `json:"status"`
	TrackingID            *string       `json:"tracking_id,omitempty"`
	ExternalTransactionID *string       `json:"external_transaction_id,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	PaidAt                *time.Time    `json:"paid_at,omitempty"`
	CreditedAt            *time.Time    `json:"credited_at,omitempty"`
}

// PaidStamp is written by the pending → paid transition
type PaidStamp struct {
	TrackingID            string
	ExternalTransactionID string
	PaidAt                time.Time
}
