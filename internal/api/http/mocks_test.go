package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/service"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Register(ctx context.Context, email string, in service.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, email, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountService) GetSeatLimit(ctx context.Context, hrID string) (*domain.Account, error) {
	args := m.Called(ctx, hrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, accountID string, in service.UpdateProfileInput) (*domain.Account, error) {
	args := m.Called(ctx, accountID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type mockAssetService struct {
	mock.Mock
}

func (m *mockAssetService) CreateAsset(ctx context.Context, hrID string, in service.CreateAssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, hrID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, hrID, assetID string, in service.UpdateAssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, hrID, assetID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Package), args.Error(1)
}

type mockRequestWorkflow struct {
	mock.Mock
}

func (m *mockRequestWorkflow) result(args mock.Arguments) (*domain.AssetRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetRequest), args.Error(1)
}

func (m *mockRequestWorkflow) CreateRequest(ctx context.Context, requesterID string, in service.CreateRequestInput) (*domain.AssetRequest, error) {
	return m.result(m.Called(ctx, requesterID, in))
}

func (m *mockRequestWorkflow) Approve(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error) {
	return m.result(m.Called(ctx, requestID, decidedBy))
}

func (m *mockRequestWorkflow) Reject(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error) {
	return m.result(m.Called(ctx, requestID, decidedBy))
}

func (m *mockRequestWorkflow) ReturnAsset(ctx context.Context, requestID, requesterID string) (*domain.AssetRequest, error) {
	return m.result(m.Called(ctx, requestID, requesterID))
}

func (m *mockRequestWorkflow) DirectAssign(ctx context.Context, hrID string, in service.DirectAssignInput) (*domain.AssetRequest, error) {
	return m.result(m.Called(ctx, hrID, in))
}

func (m *mockRequestWorkflow) ListOverdueReturns(ctx context.Context) ([]domain.AssetRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetRequest), args.Error(1)
}

type mockPaymentReconciler struct {
	mock.Mock
}

func (m *mockPaymentReconciler) CreateOrder(ctx context.Context, hrID, packageID string) (*service.CheckoutResult, error) {
	args := m.Called(ctx, hrID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutResult), args.Error(1)
}

func (m *mockPaymentReconciler) Confirm(ctx context.Context, sessionID string) (*service.ConfirmResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConfirmResult), args.Error(1)
}

func (m *mockPaymentReconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func (m *mockPaymentReconciler) ReconcileUncredited(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}
