package service

import (
	"context"
	"fmt"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type inventoryLedger struct {
	assets repository.AssetRepository
}

func NewInventoryLedger(assets repository.AssetRepository) InventoryLedger {
	return &inventoryLedger{assets: assets}
}

// Reserve fails with ErrOutOfStock when no unit is available
func (l *inventoryLedger) Reserve(ctx context.Context, assetID string) error {
	available, err := l.assets.Reserve(ctx, assetID)
	if err != nil {
		return err
	}
	logger.Debug("Asset unit reserved", "asset_id", assetID, "available", available)
	return nil
}

// Release never raises the counter above the asset's total quantity
func (l *inventoryLedger) Release(ctx context.Context, assetID string) error {
	available, capped, err := l.assets.Release(ctx, assetID)
	if err != nil {
		return fmt.Errorf("release asset %s: %w", assetID, err)
	}
	if capped {
		logger.Warn("Release ignored, asset already at total quantity", "asset_id", assetID)
		return nil
	}
	logger.Debug("Asset unit released", "asset_id", assetID, "available", available)
	return nil
}

func (l *inventoryLedger) Adjust(ctx context.Context, assetID string, delta int32) (*domain.Asset, error) {
	asset, err := l.assets.Adjust(ctx, assetID, delta)
	if err != nil {
		return nil, err
	}
	logger.Info("Asset stock adjusted", "asset_id", assetID, "delta", delta, "total", asset.TotalQuantity, "available", asset.AvailableQuantity)
	return asset, nil
}

type entitlementLedger struct {
	accounts repository.AccountRepository
}

func NewEntitlementLedger(accounts repository.AccountRepository) EntitlementLedger {
	return &entitlementLedger{accounts: accounts}
}

func (l *entitlementLedger) ConsumeSeat(ctx context.Context, hrID string) error {
	return l.accounts.ConsumeSeat(ctx, hrID)
}

func (l *entitlementLedger) ReturnSeat(ctx context.Context, hrID string) error {
	if err := l.accounts.ReturnSeat(ctx, hrID); err != nil {
		return fmt.Errorf("return seat to %s: %w", hrID, err)
	}
	return nil
}

// CreditSeats adds seats for one paid order. A second call for the same order
// changes nothing and reports applied=false.
func (l *entitlementLedger) CreditSeats(ctx context.Context, hrID string, seats int32, tier, orderID string) (bool, error) {
	applied, err := l.accounts.CreditSeats(ctx, hrID, seats, tier, orderID)
	if err != nil {
		return false, fmt.Errorf("credit %d seats to %s: %w", seats, hrID, err)
	}
	if applied {
		logger.Info("Seats credited", "hr_id", hrID, "seats", seats, "tier", tier, "order_id", orderID)
	} else {
		logger.Info("Seat credit already applied", "hr_id", hrID, "order_id", orderID)
	}
	return applied, nil
}
