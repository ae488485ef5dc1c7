package postgres

import (
	"context"
	"database/sql"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.AssignedAsset) error {
	query := `INSERT INTO assigned_assets (id, request_id, asset_id, asset_name, asset_type, employee_id, hr_id, company_name, assigned_at, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.DatabaseCall("assigned_assets.create", query, "request_id", a.RequestID)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.RequestID, a.AssetID, a.AssetName, a.AssetType, a.EmployeeID, a.HRID, a.CompanyName, a.AssignedAt, a.Status)
	logger.DatabaseResult("assigned_assets.create", 1, err)
	return err
}

func (r *assignmentRepository) MarkReturned(ctx context.Context, requestID string, at time.Time) (bool, error) {
	query := `UPDATE assigned_assets SET status = $2, returned_at = $3 WHERE request_id = $1 AND status = $4`
	logger.DatabaseCall("assigned_assets.mark_returned", query, "request_id", requestID)
	res, err := r.db.ExecContext(ctx, query, requestID, domain.AssignmentStatusReturned, at, domain.AssignmentStatusAssigned)
	if err != nil {
		logger.DatabaseResult("assigned_assets.mark_returned", 0, err)
		return false, err
	}
	n, err := rowsAffected("assigned_assets.mark_returned", res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
