package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, product_name, product_image, product_type, company_name, total_quantity, available_quantity, owner_hr_id, created_at`

func scanAsset(row interface{ Scan(...any) error }) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(&a.ID, &a.ProductName, &a.ProductImage, &a.ProductType, &a.CompanyName, &a.TotalQuantity, &a.AvailableQuantity, &a.OwnerHRID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO assets (id, product_name, product_image, product_type, company_name, total_quantity, available_quantity, owner_hr_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("assets.create", query, "owner_hr_id", a.OwnerHRID)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.ProductName, a.ProductImage, a.ProductType, a.CompanyName, a.TotalQuantity, a.AvailableQuantity, a.OwnerHRID, a.CreatedAt)
	logger.DatabaseResult("assets.create", 1, err)
	if isCheckViolation(err) {
		return domain.ErrInvalidInput
	}
	return err
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrAssetNotFound)
	}
	return a, nil
}

func (r *assetRepository) Reserve(ctx context.Context, id string) (int32, error) {
	query := `UPDATE assets SET available_quantity = available_quantity - 1 WHERE id = $1 AND available_quantity > 0 RETURNING available_quantity`
	logger.DatabaseCall("assets.reserve", query, "asset_id", id)
	var available int32
	err := r.db.QueryRowContext(ctx, query, id).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("assets.reserve", 0, nil)
		if err := r.missingOr(ctx, id); err != nil {
			return 0, err
		}
		return 0, domain.ErrOutOfStock
	}
	if err != nil {
		logger.DatabaseResult("assets.reserve", 0, err)
		return 0, err
	}
	logger.DatabaseResult("assets.reserve", 1, nil, "available", available)
	return available, nil
}

func (r *assetRepository) Release(ctx context.Context, id string) (int32, bool, error) {
	query := `UPDATE assets SET available_quantity = available_quantity + 1 WHERE id = $1 AND available_quantity < total_quantity RETURNING available_quantity`
	logger.DatabaseCall("assets.release", query, "asset_id", id)
	var available int32
	err := r.db.QueryRowContext(ctx, query, id).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("assets.release", 0, nil)
		if err := r.missingOr(ctx, id); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	}
	if err != nil {
		logger.DatabaseResult("assets.release", 0, err)
		return 0, false, err
	}
	logger.DatabaseResult("assets.release", 1, nil, "available", available)
	return available, false, nil
}

func (r *assetRepository) Adjust(ctx context.Context, id string, delta int32) (*domain.Asset, error) {
	query := `UPDATE assets SET total_quantity = total_quantity + $2, available_quantity = available_quantity + $2
	          WHERE id = $1 AND available_quantity + $2 >= 0
	          RETURNING ` + assetColumns
	logger.DatabaseCall("assets.adjust", query, "asset_id", id, "delta", delta)
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id, delta))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("assets.adjust", 0, nil)
		if err := r.missingOr(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrStockInUse
	}
	if err != nil {
		logger.DatabaseResult("assets.adjust", 0, err)
		return nil, err
	}
	logger.DatabaseResult("assets.adjust", 1, nil, "total", a.TotalQuantity, "available", a.AvailableQuantity)
	return a, nil
}

func (r *assetRepository) UpdateDetails(ctx context.Context, id, ownerHRID string, d domain.AssetDetails) (*domain.Asset, error) {
	query := `UPDATE assets SET product_name = COALESCE($3, product_name), product_image = COALESCE($4, product_image)
	          WHERE id = $1 AND owner_hr_id = $2
	          RETURNING ` + assetColumns
	logger.DatabaseCall("assets.update_details", query, "asset_id", id, "owner_hr_id", ownerHRID)
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id, ownerHRID, d.ProductName, d.ProductImage))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("assets.update_details", 0, nil)
		if err := r.missingOr(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrForbidden
	}
	if err != nil {
		logger.DatabaseResult("assets.update_details", 0, err)
		return nil, err
	}
	logger.DatabaseResult("assets.update_details", 1, nil)
	return a, nil
}

func (r *assetRepository) missingOr(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrAssetNotFound
	}
	return nil
}
