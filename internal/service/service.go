package service

import (
	"context"
	"time"

	"assetdesk-backend/internal/domain"
)

// InventoryLedger owns Asset.AvailableQuantity
type InventoryLedger interface {
	Reserve(ctx context.Context, assetID string) error
	Release(ctx context.Context, assetID string) error
	// Adjust restocks (delta > 0) or removes unassigned units (delta < 0).
	Adjust(ctx context.Context, assetID string, delta int32) (*domain.Asset, error)
}

// EntitlementLedger owns the seat counters of HR accounts
type EntitlementLedger interface {
	ConsumeSeat(ctx context.Context, hrID string) error
	ReturnSeat(ctx context.Context, hrID string) error
	CreditSeats(ctx context.Context, hrID string, seats int32, tier, orderID string) (applied bool, err error)
}

type CreateRequestInput struct {
	AssetID string `json:"asset_id"`
	Note    string `json:"note"`
}

type DirectAssignInput struct {
	AssetID    string `json:"asset_id"`
	EmployeeID string `json:"employee_id"`
	Note       string `json:"note"`
}

// RequestWorkflow is the asset request state machine:
// pending → {approved, rejected}, approved → returned (Returnable only).
type RequestWorkflow interface {
	CreateRequest(ctx context.Context, requesterID string, in CreateRequestInput) (*domain.AssetRequest, error)
	Approve(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error)
	Reject(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error)
	ReturnAsset(ctx context.Context, requestID, requesterID string) (*domain.AssetRequest, error)
	DirectAssign(ctx context.Context, hrID string, in DirectAssignInput) (*domain.AssetRequest, error)
	ListOverdueReturns(ctx context.Context) ([]domain.AssetRequest, error)
}

type CheckoutResult struct {
	Order       *domain.PaymentOrder `json:"order"`
	CheckoutURL string               `json:"checkout_url"`
}

// ConfirmResult reports the order after confirmation. Applied is false when a
// previous call already moved the order to paid.
type ConfirmResult struct {
	Order   *domain.PaymentOrder `json:"order"`
	Applied bool                 `json:"applied"`
}

type PaymentReconciler interface {
	CreateOrder(ctx context.Context, hrID, packageID string) (*CheckoutResult, error)
	Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ReconcileUncredited(ctx context.Context, olderThan time.Duration) (int, error)
}

type RegisterInput struct {
	Name        string             `json:"name"`
	Role        domain.AccountRole `json:"role"`
	CompanyName string             `json:"company_name"`
	DateOfBirth string             `json:"date_of_birth"`
}

// UpdateProfileInput changes the caller's own profile. Omitted fields stay as
// they are.
type UpdateProfileInput struct {
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

type AccountService interface {
	Register(ctx context.Context, email string, in RegisterInput) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetSeatLimit(ctx context.Context, hrID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*domain.Account, error)
}

type CreateAssetInput struct {
	ProductName  string             `json:"product_name"`
	ProductImage string             `json:"product_image"`
	ProductType  domain.ProductType `json:"product_type"`
	Quantity     int32              `json:"product_quantity"`
}

// UpdateAssetInput edits an asset. QuantityDelta adds units to (or removes
// unassigned units from) both the total and the available count.
type UpdateAssetInput struct {
	ProductName   *string `json:"product_name,omitempty"`
	ProductImage  *string `json:"product_image,omitempty"`
	QuantityDelta int32   `json:"quantity_delta,omitempty"`
}

type AssetService interface {
	CreateAsset(ctx context.Context, hrID string, in CreateAssetInput) (*domain.Asset, error)
	UpdateAsset(ctx context.Context, hrID, assetID string, in UpdateAssetInput) (*domain.Asset, error)
	ListPackages(ctx context.Context) ([]domain.Package, error)
}
