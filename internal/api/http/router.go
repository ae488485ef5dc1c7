package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/security"
	"assetdesk-backend/internal/service"
)

// Dependencies wires the HTTP surface. MockPayer is nil unless the mock
// payment processor is configured; DB may be nil to skip the health ping.
type Dependencies struct {
	Verifier  security.IdentityVerifier
	Accounts  service.AccountService
	Assets    service.AssetService
	Requests  service.RequestWorkflow
	Payments  service.PaymentReconciler
	MockPayer MockPayer
	DB        Pinger
}

// NewRouter registers every route under its security name. Unnamed routes
// fall back to the HR level in the auth middleware.
func NewRouter(d Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.Use(NewAuthMiddleware(d.Verifier, d.Accounts).Middleware)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.HandleFunc("/health", HandleHealth(d.DB)).Methods(http.MethodGet).Name(config.RouteHealth)
	r.HandleFunc("/packages", HandleListPackages(d.Assets)).Methods(http.MethodGet).Name(config.RouteListPackages)

	r.HandleFunc("/users", HandleRegister(d.Accounts)).Methods(http.MethodPost).Name(config.RouteRegister)
	r.HandleFunc("/users/me", HandleProfile()).Methods(http.MethodGet).Name(config.RouteProfile)
	r.HandleFunc("/users/me", HandleUpdateProfile(d.Accounts)).Methods(http.MethodPatch).Name(config.RouteUpdateProfile)
	r.HandleFunc("/users/hr/limit", HandleSeatLimit(d.Accounts)).Methods(http.MethodGet).Name(config.RouteHRSeatLimit)

	r.HandleFunc("/assets", HandleCreateAsset(d.Assets)).Methods(http.MethodPost).Name(config.RouteCreateAsset)
	r.HandleFunc("/assets/{id}", HandleUpdateAsset(d.Assets)).Methods(http.MethodPatch).Name(config.RouteUpdateAsset)

	r.HandleFunc("/asset-requests", HandleCreateRequest(d.Requests)).Methods(http.MethodPost).Name(config.RouteCreateRequest)
	r.HandleFunc("/asset-requests/{id}/approve", HandleApproveRequest(d.Requests)).Methods(http.MethodPatch).Name(config.RouteApproveRequest)
	r.HandleFunc("/asset-requests/{id}/reject", HandleRejectRequest(d.Requests)).Methods(http.MethodPatch).Name(config.RouteRejectRequest)
	r.HandleFunc("/asset-requests/{id}/return", HandleReturnRequest(d.Requests)).Methods(http.MethodPatch).Name(config.RouteReturnRequest)
	r.HandleFunc("/assigned-assets", HandleDirectAssign(d.Requests)).Methods(http.MethodPost).Name(config.RouteDirectAssign)

	r.HandleFunc("/payments/checkout", HandleCreateCheckout(d.Payments)).Methods(http.MethodPost).Name(config.RouteCreateCheckout)
	r.HandleFunc("/payments/confirm", HandleConfirmPayment(d.Payments)).Methods(http.MethodPatch).Name(config.RouteConfirmPayment)
	r.HandleFunc("/payments/webhook", HandlePaymentWebhook(d.Payments)).Methods(http.MethodPost).Name(config.RoutePaymentWebhook)

	if d.MockPayer != nil {
		r.HandleFunc("/payments/mock/{session_id}/pay", HandleMockCheckout(d.MockPayer, d.Payments)).
			Methods(http.MethodGet, http.MethodPost).
			Name(config.RouteMockCheckout)
	}

	return r
}
