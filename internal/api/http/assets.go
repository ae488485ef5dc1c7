package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/service"
)

type AssetCreator interface {
	CreateAsset(ctx context.Context, hrID string, in service.CreateAssetInput) (*domain.Asset, error)
}

type AssetUpdater interface {
	UpdateAsset(ctx context.Context, hrID, assetID string, in service.UpdateAssetInput) (*domain.Asset, error)
}

type PackageLister interface {
	ListPackages(ctx context.Context) ([]domain.Package, error)
}

func HandleCreateAsset(svc AssetCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var in service.CreateAssetInput
		if !decodeJSON(w, r, &in) {
			return
		}

		asset, err := svc.CreateAsset(r.Context(), hrID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, asset)
	}
}

func HandleUpdateAsset(svc AssetUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hrID, ok := mustAccount(w, r)
		if !ok {
			return
		}

		var in service.UpdateAssetInput
		if !decodeJSON(w, r, &in) {
			return
		}

		asset, err := svc.UpdateAsset(r.Context(), hrID, mux.Vars(r)["id"], in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, asset)
	}
}

func HandleListPackages(svc PackageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packages, err := svc.ListPackages(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if packages == nil {
			packages = []domain.Package{}
		}
		writeJSON(w, http.StatusOK, packages)
	}
}
