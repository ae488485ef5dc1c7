package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
)

const (
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidInput       = "invalid_input"
	codeUnauthenticated    = "unauthenticated"
	codeForbidden          = "forbidden"
	codeNotRegistered      = "account_not_registered"
	codeNotFound           = "not_found"
	codeConflict           = "conflict"
	codePaymentRequired    = "payment_not_completed"
	codePaymentProvider    = "payment_provider_error"
	codeInternalError      = "internal_error"
)

// Sentinels with a more specific code than their kind
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrAssetNotFound, "asset_not_found"},
	{domain.ErrRequestNotFound, "request_not_found"},
	{domain.ErrAccountNotFound, "account_not_found"},
	{domain.ErrOrderNotFound, "order_not_found"},
	{domain.ErrPackageNotFound, "package_not_found"},
	{domain.ErrDuplicateRequest, "duplicate_request"},
	{domain.ErrAlreadyDecided, "already_decided"},
	{domain.ErrAlreadyRegistered, "already_registered"},
	{domain.ErrNotEligible, "not_eligible"},
	{domain.ErrOutOfStock, "out_of_stock"},
	{domain.ErrStockInUse, "stock_in_use"},
	{domain.ErrSeatLimitExceeded, "seat_limit_exceeded"},
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response body", "error", err)
	}
}

// writeServiceError maps a service error to a status code. Internal and
// inconsistency errors never leak their message to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		if status == http.StatusInternalServerError {
			writeError(w, status, code, "internal error")
			return
		}
	}
	writeError(w, status, code, err.Error())
}

func statusFor(err error) (int, string) {
	kind := domain.KindOf(err)
	code := ""
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			code = c.code
			break
		}
	}

	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, orDefault(code, codeNotFound)
	case domain.KindConflict, domain.KindResourceExhausted:
		return http.StatusConflict, orDefault(code, codeConflict)
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, codeUnauthenticated
	case domain.KindForbidden:
		return http.StatusForbidden, codeForbidden
	case domain.KindInvalid:
		return http.StatusBadRequest, codeInvalidInput
	case domain.KindPaymentRequired:
		return http.StatusPaymentRequired, codePaymentRequired
	case domain.KindExternal:
		return http.StatusBadGateway, codePaymentProvider
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}

func orDefault(code, fallback string) string {
	if code == "" {
		return fallback
	}
	return code
}
