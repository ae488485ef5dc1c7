package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
)

var (
	errRequestMovedOn   = fmt.Errorf("%w: request left approved before compensation", domain.ErrAlreadyDecided)
	errNoOpenAssignment = errors.New("no open assignment for request")
)

// settlement is one request moving into approved. commit writes the approved
// status and reports a lost race as a domain error; revert undoes a successful
// commit.
type settlement struct {
	op      string
	request *domain.AssetRequest
	commit  func(ctx context.Context) error
	revert  func(ctx context.Context) error
}

type undoStep struct {
	entity string
	id     string
	run    func(ctx context.Context) error
}

// settle applies reserve stock → consume seat → commit status → mirror
// assignment, in that order. Each step that fails undoes the steps before it.
func (w *requestWorkflow) settle(ctx context.Context, s settlement) error {
	req := s.request

	if err := w.inventory.Reserve(ctx, req.AssetID); err != nil {
		return err
	}
	release := undoStep{entity: "asset", id: req.AssetID, run: func(ctx context.Context) error {
		return w.inventory.Release(ctx, req.AssetID)
	}}

	if err := w.entitlement.ConsumeSeat(ctx, req.HRID); err != nil {
		return w.compensate(ctx, s.op, req.ID, err, release)
	}
	returnSeat := undoStep{entity: "hr_account", id: req.HRID, run: func(ctx context.Context) error {
		return w.entitlement.ReturnSeat(ctx, req.HRID)
	}}

	if err := s.commit(ctx); err != nil {
		return w.compensate(ctx, s.op, req.ID, err, returnSeat, release)
	}
	revert := undoStep{entity: "asset_request", id: req.ID, run: s.revert}

	assignment := &domain.AssignedAsset{
		ID:          uuid.NewString(),
		RequestID:   req.ID,
		AssetID:     req.AssetID,
		AssetName:   req.AssetName,
		AssetType:   req.AssetType,
		EmployeeID:  req.RequesterID,
		HRID:        req.HRID,
		CompanyName: req.CompanyName,
		AssignedAt:  w.clock.Now(),
		Status:      domain.AssignmentStatusAssigned,
	}
	if err := w.assignments.Create(ctx, assignment); err != nil {
		return w.compensate(ctx, s.op, req.ID, fmt.Errorf("create assignment: %w", err), revert, returnSeat, release)
	}
	return nil
}

// compensate runs undo steps in order on a context that cannot be cancelled
// and returns cause. If any step fails the result is an InconsistencyError
// naming the first record left wrong; the remaining steps still run unless
// the request moved on, in which case nothing after the revert is undone.
func (w *requestWorkflow) compensate(ctx context.Context, op, requestID string, cause error, steps ...undoStep) error {
	ctx = context.WithoutCancel(ctx)

	var first error
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}
		incErr := w.inconsistent(ctx, op, step.entity, step.id, cause, err, "request_id", requestID)
		if first == nil {
			first = incErr
		}
		if errors.Is(err, errRequestMovedOn) {
			break
		}
	}
	if first != nil {
		return first
	}
	return cause
}

func (w *requestWorkflow) inconsistent(ctx context.Context, op, entity, id string, cause, err error, args ...any) error {
	incErr := &domain.InconsistencyError{Op: op, Entity: entity, EntityID: id, Cause: cause, Err: err}
	logger.Inconsistency(ctx, op, err, append([]any{"entity", entity, "entity_id", id, "cause", cause}, args...)...)
	return incErr
}
