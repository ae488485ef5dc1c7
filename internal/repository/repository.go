package repository

import (
	"context"
	"time"

	"assetdesk-backend/internal/domain"
)

// Every method that changes a counter or a status is a single conditional
// statement against one row. Callers never read-then-write these fields.

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ConsumeSeat decrements package_limit and increments current_employee_count
	// when package_limit > 0.
	ConsumeSeat(ctx context.Context, hrID string) error
	// ReturnSeat undoes one ConsumeSeat.
	ReturnSeat(ctx context.Context, hrID string) error
	// CreditSeats adds seats once per orderID. applied is false when orderID had
	// already been credited.
	CreditSeats(ctx context.Context, hrID string, seats int32, tier, orderID string) (applied bool, err error)
	UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.Account, error)
}

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)

	// Reserve takes one unit when available_quantity > 0 and returns the new value.
	Reserve(ctx context.Context, id string) (int32, error)
	// Release gives one unit back, never above total_quantity. capped is true
	// when the asset was already full and nothing changed.
	Release(ctx context.Context, id string) (available int32, capped bool, err error)
	// Adjust moves total_quantity and available_quantity by the same delta.
	// A removal larger than the available units fails with ErrStockInUse.
	Adjust(ctx context.Context, id string, delta int32) (*domain.Asset, error)
	// UpdateDetails edits an asset owned by ownerHRID.
	UpdateDetails(ctx context.Context, id, ownerHRID string, d domain.AssetDetails) (*domain.Asset, error)
}

type RequestRepository interface {
	// Create inserts a request in whatever status it carries. A second live
	// request for the same (asset, requester) fails with ErrDuplicateRequest.
	Create(ctx context.Context, req *domain.AssetRequest) error
	GetByID(ctx context.Context, id string) (*domain.AssetRequest, error)
	FindLive(ctx context.Context, assetID, requesterID string) (*domain.AssetRequest, error)

	// Decide moves a pending request to d.Status. changed is false when the
	// request was no longer pending.
	Decide(ctx context.Context, id string, d domain.Decision) (changed bool, err error)
	// RevertDecision moves a request from `from` back to `to` and clears the
	// decision stamp. Used only by compensation.
	RevertDecision(ctx context.Context, id string, from, to domain.RequestStatus) (changed bool, err error)
	// MarkReturned moves an approved Returnable request owned by requesterID to
	// returned. A request whose assignment mirror is not open yet is not eligible.
	MarkReturned(ctx context.Context, id, requesterID string, at time.Time) (*domain.AssetRequest, error)
	ListOverdueReturns(ctx context.Context, now time.Time) ([]domain.AssetRequest, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.AssignedAsset) error
	// MarkReturned closes the open mirror of requestID. changed is false when
	// there was no open mirror.
	MarkReturned(ctx context.Context, requestID string, at time.Time) (changed bool, err error)
}

type PackageRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, order *domain.PaymentOrder) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentOrder, error)

	// MarkPaid is the pending → paid transition. changed is false when the
	// order was already paid.
	MarkPaid(ctx context.Context, sessionID string, stamp domain.PaidStamp) (changed bool, err error)
	MarkCredited(ctx context.Context, orderID string, at time.Time) error
	// ListUncredited returns paid orders whose credit has not been recorded
	// and that were paid before `paidBefore`.
	ListUncredited(ctx context.Context, paidBefore time.Time) ([]domain.PaymentOrder, error)
}
