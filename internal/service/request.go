package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetdesk-backend/internal/clock"
	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type requestWorkflow struct {
	requests     repository.RequestRepository
	assets       repository.AssetRepository
	accounts     repository.AccountRepository
	assignments  repository.AssignmentRepository
	inventory    InventoryLedger
	entitlement  EntitlementLedger
	clock        clock.Clock
	returnPeriod time.Duration
}

func NewRequestWorkflow(
	requests repository.RequestRepository,
	assets repository.AssetRepository,
	accounts repository.AccountRepository,
	assignments repository.AssignmentRepository,
	inventory InventoryLedger,
	entitlement EntitlementLedger,
	clk clock.Clock,
	returnPeriod time.Duration,
) RequestWorkflow {
	return &requestWorkflow{
		requests:     requests,
		assets:       assets,
		accounts:     accounts,
		assignments:  assignments,
		inventory:    inventory,
		entitlement:  entitlement,
		clock:        clk,
		returnPeriod: returnPeriod,
	}
}

func (w *requestWorkflow) CreateRequest(ctx context.Context, requesterID string, in CreateRequestInput) (*domain.AssetRequest, error) {
	logger.EnterMethod("requestWorkflow.CreateRequest", "requester_id", requesterID, "asset_id", in.AssetID)

	if strings.TrimSpace(in.AssetID) == "" {
		return nil, fmt.Errorf("%w: asset_id is required", domain.ErrInvalidInput)
	}

	asset, err := w.assets.GetByID(ctx, in.AssetID)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.CreateRequest", err, domain.IsBusinessRule(err))
		return nil, err
	}

	if err := w.ensureNoLiveRequest(ctx, asset.ID, requesterID); err != nil {
		logger.ExitMethodWithError("requestWorkflow.CreateRequest", err, domain.IsBusinessRule(err))
		return nil, err
	}

	req := &domain.AssetRequest{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		AssetName:   asset.ProductName,
		AssetType:   asset.ProductType,
		RequesterID: requesterID,
		HRID:        asset.OwnerHRID,
		CompanyName: asset.CompanyName,
		Status:      domain.RequestStatusPending,
		RequestedAt: w.clock.Now(),
		Note:        in.Note,
	}
	// The partial unique index catches a concurrent duplicate the pre-check missed.
	if err := w.requests.Create(ctx, req); err != nil {
		logger.ExitMethodWithError("requestWorkflow.CreateRequest", err, domain.IsBusinessRule(err))
		return nil, err
	}

	logger.ExitMethod("requestWorkflow.CreateRequest", "request_id", req.ID)
	return req, nil
}

func (w *requestWorkflow) Approve(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error) {
	logger.EnterMethod("requestWorkflow.Approve", "request_id", requestID, "decided_by", decidedBy)

	req, err := w.loadPendingFor(ctx, requestID, decidedBy)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.Approve", err, domain.IsBusinessRule(err))
		return nil, err
	}

	now := w.clock.Now()
	decision := domain.Decision{
		Status:         domain.RequestStatusApproved,
		DecidedAt:      now,
		DecidedBy:      decidedBy,
		ReturnDeadline: w.returnDeadline(req.AssetType, now),
	}

	err = w.settle(ctx, settlement{
		op:      "approve",
		request: req,
		commit: func(ctx context.Context) error {
			changed, err := w.requests.Decide(ctx, req.ID, decision)
			if err != nil {
				return err
			}
			if !changed {
				return domain.ErrAlreadyDecided
			}
			return nil
		},
		revert: w.revertApproval(req.ID, domain.RequestStatusPending),
	})
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.Approve", err, domain.IsBusinessRule(err))
		return nil, err
	}

	req.Status = decision.Status
	req.DecidedAt = &decision.DecidedAt
	req.DecidedBy = &decision.DecidedBy
	req.ReturnDeadline = decision.ReturnDeadline

	logger.ExitMethod("requestWorkflow.Approve", "request_id", req.ID)
	return req, nil
}

func (w *requestWorkflow) Reject(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error) {
	logger.EnterMethod("requestWorkflow.Reject", "request_id", requestID, "decided_by", decidedBy)

	req, err := w.loadPendingFor(ctx, requestID, decidedBy)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.Reject", err, domain.IsBusinessRule(err))
		return nil, err
	}

	decision := domain.Decision{
		Status:    domain.RequestStatusRejected,
		DecidedAt: w.clock.Now(),
		DecidedBy: decidedBy,
	}
	changed, err := w.requests.Decide(ctx, req.ID, decision)
	if err == nil && !changed {
		err = domain.ErrAlreadyDecided
	}
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.Reject", err, domain.IsBusinessRule(err))
		return nil, err
	}

	req.Status = decision.Status
	req.DecidedAt = &decision.DecidedAt
	req.DecidedBy = &decision.DecidedBy

	logger.ExitMethod("requestWorkflow.Reject", "request_id", req.ID)
	return req, nil
}

func (w *requestWorkflow) ReturnAsset(ctx context.Context, requestID, requesterID string) (*domain.AssetRequest, error) {
	logger.EnterMethod("requestWorkflow.ReturnAsset", "request_id", requestID, "requester_id", requesterID)

	now := w.clock.Now()
	req, err := w.requests.MarkReturned(ctx, requestID, requesterID, now)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.ReturnAsset", err, domain.IsBusinessRule(err))
		return nil, err
	}

	// The request is already returned; from here on nothing can be undone, only reported.
	ctx = context.WithoutCancel(ctx)
	if err := w.inventory.Release(ctx, req.AssetID); err != nil {
		return nil, w.inconsistent(ctx, "return", "asset", req.AssetID, errors.New("request returned but stock not released"), err, "request_id", req.ID)
	}
	changed, err := w.assignments.MarkReturned(ctx, req.ID, now)
	if err == nil && !changed {
		err = errNoOpenAssignment
	}
	if err != nil {
		return nil, w.inconsistent(ctx, "return", "assigned_asset", req.ID, errors.New("request returned but assignment not closed"), err)
	}

	logger.ExitMethod("requestWorkflow.ReturnAsset", "request_id", req.ID)
	return req, nil
}

func (w *requestWorkflow) DirectAssign(ctx context.Context, hrID string, in DirectAssignInput) (*domain.AssetRequest, error) {
	logger.EnterMethod("requestWorkflow.DirectAssign", "hr_id", hrID, "asset_id", in.AssetID, "employee_id", in.EmployeeID)

	if strings.TrimSpace(in.AssetID) == "" || strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("%w: asset_id and employee_id are required", domain.ErrInvalidInput)
	}

	asset, err := w.assets.GetByID(ctx, in.AssetID)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", err, domain.IsBusinessRule(err))
		return nil, err
	}
	if asset.OwnerHRID != hrID {
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", domain.ErrForbidden, true)
		return nil, domain.ErrForbidden
	}
	employee, err := w.accounts.GetByID(ctx, in.EmployeeID)
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", err, domain.IsBusinessRule(err))
		return nil, err
	}
	if employee.Role != domain.AccountRoleEmployee {
		err := fmt.Errorf("%w: assets can only be assigned to employees", domain.ErrInvalidInput)
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", err, true)
		return nil, err
	}
	if err := w.ensureNoLiveRequest(ctx, asset.ID, in.EmployeeID); err != nil {
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", err, domain.IsBusinessRule(err))
		return nil, err
	}

	now := w.clock.Now()
	note := in.Note
	if note == "" {
		note = domain.DirectAssignNote
	}
	decidedBy := hrID
	req := &domain.AssetRequest{
		ID:             uuid.NewString(),
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetType:      asset.ProductType,
		RequesterID:    in.EmployeeID,
		HRID:           hrID,
		CompanyName:    asset.CompanyName,
		Status:         domain.RequestStatusApproved,
		RequestedAt:    now,
		DecidedAt:      &now,
		DecidedBy:      &decidedBy,
		ReturnDeadline: w.returnDeadline(asset.ProductType, now),
		Note:           note,
		DirectAssign:   true,
	}

	err = w.settle(ctx, settlement{
		op:      "direct_assign",
		request: req,
		commit: func(ctx context.Context) error {
			return w.requests.Create(ctx, req)
		},
		// A direct assignment has no pending state to fall back to.
		revert: w.revertApproval(req.ID, domain.RequestStatusRejected),
	})
	if err != nil {
		logger.ExitMethodWithError("requestWorkflow.DirectAssign", err, domain.IsBusinessRule(err))
		return nil, err
	}

	logger.ExitMethod("requestWorkflow.DirectAssign", "request_id", req.ID)
	return req, nil
}

func (w *requestWorkflow) ListOverdueReturns(ctx context.Context) ([]domain.AssetRequest, error) {
	return w.requests.ListOverdueReturns(ctx, w.clock.Now())
}

// revertApproval undoes a committed approval. A request that is no longer
// approved has moved on and its stock and seat are no longer ours to undo.
func (w *requestWorkflow) revertApproval(requestID string, to domain.RequestStatus) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		changed, err := w.requests.RevertDecision(ctx, requestID, domain.RequestStatusApproved, to)
		if err != nil {
			return err
		}
		if !changed {
			return errRequestMovedOn
		}
		return nil
	}
}

// loadPendingFor loads a request that hrID may decide on
func (w *requestWorkflow) loadPendingFor(ctx context.Context, requestID, hrID string) (*domain.AssetRequest, error) {
	req, err := w.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.HRID != hrID {
		return nil, domain.ErrForbidden
	}
	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrAlreadyDecided
	}
	return req, nil
}

func (w *requestWorkflow) ensureNoLiveRequest(ctx context.Context, assetID, requesterID string) error {
	_, err := w.requests.FindLive(ctx, assetID, requesterID)
	switch {
	case err == nil:
		return domain.ErrDuplicateRequest
	case errors.Is(err, domain.ErrRequestNotFound):
		return nil
	default:
		return err
	}
}

func (w *requestWorkflow) returnDeadline(t domain.ProductType, decidedAt time.Time) *time.Time {
	if t != domain.ProductTypeReturnable {
		return nil
	}
	deadline := decidedAt.Add(w.returnPeriod)
	return &deadline
}
