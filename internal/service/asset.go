package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"assetdesk-backend/internal/clock"
	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type assetService struct {
	assets    repository.AssetRepository
	accounts  repository.AccountRepository
	packages  repository.PackageRepository
	inventory InventoryLedger
	clock     clock.Clock
}

func NewAssetService(
	assets repository.AssetRepository,
	accounts repository.AccountRepository,
	packages repository.PackageRepository,
	inventory InventoryLedger,
	clk clock.Clock,
) AssetService {
	return &assetService{
		assets:    assets,
		accounts:  accounts,
		packages:  packages,
		inventory: inventory,
		clock:     clk,
	}
}

func (s *assetService) CreateAsset(ctx context.Context, hrID string, in CreateAssetInput) (*domain.Asset, error) {
	logger.EnterMethod("assetService.CreateAsset", "hr_id", hrID, "product_name", in.ProductName)

	if strings.TrimSpace(in.ProductName) == "" {
		return nil, fmt.Errorf("%w: product_name is required", domain.ErrInvalidInput)
	}
	if !in.ProductType.Valid() {
		return nil, fmt.Errorf("%w: unknown product_type %q", domain.ErrInvalidInput, in.ProductType)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: product_quantity must be positive", domain.ErrInvalidInput)
	}

	hr, err := s.accounts.GetByID(ctx, hrID)
	if err != nil {
		logger.ExitMethodWithError("assetService.CreateAsset", err, domain.IsBusinessRule(err))
		return nil, err
	}

	asset := &domain.Asset{
		ID:                uuid.NewString(),
		ProductName:       strings.TrimSpace(in.ProductName),
		ProductImage:      in.ProductImage,
		ProductType:       in.ProductType,
		CompanyName:       hr.CompanyName,
		TotalQuantity:     in.Quantity,
		AvailableQuantity: in.Quantity,
		OwnerHRID:         hr.ID,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		logger.ExitMethodWithError("assetService.CreateAsset", err, domain.IsBusinessRule(err))
		return nil, err
	}

	logger.ExitMethod("assetService.CreateAsset", "asset_id", asset.ID)
	return asset, nil
}

// UpdateAsset edits the descriptive fields and then the stock of an asset
// owned by hrID. Each part is one conditional write.
func (s *assetService) UpdateAsset(ctx context.Context, hrID, assetID string, in UpdateAssetInput) (*domain.Asset, error) {
	logger.EnterMethod("assetService.UpdateAsset", "hr_id", hrID, "asset_id", assetID, "quantity_delta", in.QuantityDelta)

	if in.ProductName != nil {
		name := strings.TrimSpace(*in.ProductName)
		if name == "" {
			return nil, fmt.Errorf("%w: product_name must not be empty", domain.ErrInvalidInput)
		}
		in.ProductName = &name
	}
	details := in.ProductName != nil || in.ProductImage != nil
	if !details && in.QuantityDelta == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		logger.ExitMethodWithError("assetService.UpdateAsset", err, domain.IsBusinessRule(err))
		return nil, err
	}
	if asset.OwnerHRID != hrID {
		logger.ExitMethodWithError("assetService.UpdateAsset", domain.ErrForbidden, true)
		return nil, domain.ErrForbidden
	}

	if details {
		asset, err = s.assets.UpdateDetails(ctx, assetID, hrID, domain.AssetDetails{
			ProductName:  in.ProductName,
			ProductImage: in.ProductImage,
		})
		if err != nil {
			logger.ExitMethodWithError("assetService.UpdateAsset", err, domain.IsBusinessRule(err))
			return nil, err
		}
	}
	if in.QuantityDelta != 0 {
		asset, err = s.inventory.Adjust(ctx, assetID, in.QuantityDelta)
		if err != nil {
			logger.ExitMethodWithError("assetService.UpdateAsset", err, domain.IsBusinessRule(err))
			return nil, err
		}
	}

	logger.ExitMethod("assetService.UpdateAsset", "asset_id", asset.ID)
	return asset, nil
}

func (s *assetService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.packages.List(ctx)
}
