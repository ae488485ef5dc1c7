package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/service"
)

// RequestCreator is the employee side of the request workflow
type RequestCreator interface {
	CreateRequest(ctx context.Context, requesterID string, in service.CreateRequestInput) (*domain.AssetRequest, error)
	ReturnAsset(ctx context.Context, requestID, requesterID string) (*domain.AssetRequest, error)
}

// RequestDecider is the HR side of the request workflow
type RequestDecider interface {
	Approve(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error)
	Reject(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error)
	DirectAssign(ctx context.Context, hrID string, in service.DirectAssignInput) (*domain.AssetRequest, error)
}

func HandleCreateRequest(svc RequestCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var in service.CreateRequestInput
		if !decodeJSON(w, r, &in) {
			return
		}

		req, err := svc.CreateRequest(r.Context(), requesterID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	}
}

func HandleReturnRequest(svc RequestCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		req, err := svc.ReturnAsset(r.Context(), mux.Vars(r)["id"], requesterID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}

func HandleApproveRequest(svc RequestDecider) http.HandlerFunc {
	return handleDecision(svc.Approve)
}

func HandleRejectRequest(svc RequestDecider) http.HandlerFunc {
	return handleDecision(svc.Reject)
}

func handleDecision(decide func(ctx context.Context, requestID, decidedBy string) (*domain.AssetRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		req, err := decide(r.Context(), mux.Vars(r)["id"], hrID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}

func HandleDirectAssign(svc RequestDecider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var in service.DirectAssignInput
		if !decodeJSON(w, r, &in) {
			return
		}

		req, err := svc.DirectAssign(r.Context(), hrID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	}
}
