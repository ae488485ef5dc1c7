package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetdesk-backend/internal/domain"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) ConsumeSeat(ctx context.Context, hrID string) error {
	args := m.Called(ctx, hrID)
	return args.Error(0)
}

func (m *MockAccountRepo) ReturnSeat(ctx context.Context, hrID string) error {
	args := m.Called(ctx, hrID)
	return args.Error(0)
}

func (m *MockAccountRepo) CreditSeats(ctx context.Context, hrID string, seats int32, tier, orderID string) (bool, error) {
	args := m.Called(ctx, hrID, seats, tier, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.Account, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) Reserve(ctx context.Context, id string) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockAssetRepo) Release(ctx context.Context, id string) (int32, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Bool(1), args.Error(2)
}

func (m *MockAssetRepo) Adjust(ctx context.Context, id string, delta int32) (*domain.Asset, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) UpdateDetails(ctx context.Context, id, ownerHRID string, d domain.AssetDetails) (*domain.Asset, error) {
	args := m.Called(ctx, id, ownerHRID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

func (m *MockPackageRepo) List(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Package), args.Error(1)
}
