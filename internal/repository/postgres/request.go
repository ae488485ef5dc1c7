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

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, asset_id, asset_name, asset_type, requester_id, hr_id, company_name, status, requested_at, decided_at, decided_by, return_deadline, returned_at, note, direct_assign`

func scanRequest(row interface{ Scan(...any) error }) (*domain.AssetRequest, error) {
	req := &domain.AssetRequest{}
	var decidedAt, returnDeadline, returnedAt sql.NullTime
	var decidedBy sql.NullString
	err := row.Scan(&req.ID, &req.AssetID, &req.AssetName, &req.AssetType, &req.RequesterID, &req.HRID, &req.CompanyName, &req.Status, &req.RequestedAt,
		&decidedAt, &decidedBy, &returnDeadline, &returnedAt, &req.Note, &req.DirectAssign)
	if err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}
	if decidedBy.Valid {
		req.DecidedBy = &decidedBy.String
	}
	if returnDeadline.Valid {
		req.ReturnDeadline = &returnDeadline.Time
	}
	if returnedAt.Valid {
		req.ReturnedAt = &returnedAt.Time
	}
	return req, nil
}

func (r *requestRepository) Create(ctx context.Context, req *domain.AssetRequest) error {
	query := `INSERT INTO asset_requests (` + requestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	logger.DatabaseCall("asset_requests.create", query, "asset_id", req.AssetID, "requester_id", req.RequesterID, "status", req.Status)
	_, err := r.db.ExecContext(ctx, query, req.ID, req.AssetID, req.AssetName, req.AssetType, req.RequesterID, req.HRID, req.CompanyName, req.Status, req.RequestedAt,
		req.DecidedAt, req.DecidedBy, req.ReturnDeadline, req.ReturnedAt, req.Note, req.DirectAssign)
	if isUniqueViolation(err) {
		logger.DatabaseResult("asset_requests.create", 0, nil, "duplicate", true)
		return domain.ErrDuplicateRequest
	}
	logger.DatabaseResult("asset_requests.create", 1, err)
	return err
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.AssetRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM asset_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrRequestNotFound)
	}
	return req, nil
}

func (r *requestRepository) FindLive(ctx context.Context, assetID, requesterID string) (*domain.AssetRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM asset_requests
	          WHERE asset_id = $1 AND requester_id = $2 AND status IN ('pending', 'approved') LIMIT 1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, assetID, requesterID))
	if err != nil {
		return nil, notFound(err, domain.ErrRequestNotFound)
	}
	return req, nil
}

func (r *requestRepository) Decide(ctx context.Context, id string, d domain.Decision) (bool, error) {
	query := `UPDATE asset_requests SET status = $2, decided_at = $3, decided_by = $4, return_deadline = $5
	          WHERE id = $1 AND status = 'pending'`
	logger.DatabaseCall("asset_requests.decide", query, "request_id", id, "status", d.Status)
	res, err := r.db.ExecContext(ctx, query, id, d.Status, d.DecidedAt, d.DecidedBy, d.ReturnDeadline)
	if err != nil {
		logger.DatabaseResult("asset_requests.decide", 0, err)
		return false, err
	}
	n, err := rowsAffected("asset_requests.decide", res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *requestRepository) RevertDecision(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	query := `UPDATE asset_requests SET status = $3, decided_at = NULL, decided_by = NULL, return_deadline = NULL
	          WHERE id = $1 AND status = $2`
	logger.DatabaseCall("asset_requests.revert_decision", query, "request_id", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		logger.DatabaseResult("asset_requests.revert_decision", 0, err)
		return false, err
	}
	n, err := rowsAffected("asset_requests.revert_decision", res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *requestRepository) MarkReturned(ctx context.Context, id, requesterID string, at time.Time) (*domain.AssetRequest, error) {
	query := `UPDATE asset_requests SET status = 'returned', returned_at = $3
	          WHERE id = $1 AND requester_id = $2 AND status = 'approved' AND asset_type = $4
	            AND EXISTS (SELECT 1 FROM assigned_assets a WHERE a.request_id = asset_requests.id AND a.status = $5)
	          RETURNING ` + requestColumns
	logger.DatabaseCall("asset_requests.mark_returned", query, "request_id", id, "requester_id", requesterID)
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, requesterID, at, domain.ProductTypeReturnable, domain.AssignmentStatusAssigned))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("asset_requests.mark_returned", 0, nil)
		return nil, domain.ErrNotEligible
	}
	if err != nil {
		logger.DatabaseResult("asset_requests.mark_returned", 0, err)
		return nil, err
	}
	logger.DatabaseResult("asset_requests.mark_returned", 1, nil)
	return req, nil
}

func (r *requestRepository) ListOverdueReturns(ctx context.Context, now time.Time) ([]domain.AssetRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM asset_requests
	          WHERE status = 'approved' AND asset_type = $1 AND return_deadline IS NOT NULL AND return_deadline < $2
	          ORDER BY return_deadline ASC`
	logger.DatabaseCall("asset_requests.list_overdue", query)
	rows, err := r.db.QueryContext(ctx, query, domain.ProductTypeReturnable, now)
	if err != nil {
		logger.DatabaseResult("asset_requests.list_overdue", 0, err)
		return nil, err
	}
	defer rows.Close()

	var requests []domain.AssetRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("asset_requests.list_overdue", int64(len(requests)), nil)
	return requests, nil
}
