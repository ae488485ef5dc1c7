package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/security"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.InitializeWithWriter(buf, "info", "text")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/asset-requests", nil)
	rec := httptest.NewRecorder()
	RequestLogger(handler).ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/asset-requests")
	assert.Contains(t, out, "status=201")
}

func TestRequestLogger_DefaultsTo200(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.InitializeWithWriter(buf, "info", "text")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	RequestLogger(handler).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "status=200")
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		err    error
	}{
		{"Bearer", "Bearer abc.def", "abc.def", nil},
		{"LowercaseBearer", "bearer abc.def", "abc.def", nil},
		{"BareToken", "abc.def", "abc.def", nil},
		{"Missing", "", "", security.ErrMissingBearer},
		{"EmptyBearer", "Bearer    ", "", security.ErrMissingBearer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := extractToken(req)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrAssetNotFound, http.StatusNotFound, "asset_not_found"},
		{domain.ErrRequestNotFound, http.StatusNotFound, "request_not_found"},
		{domain.ErrDuplicateRequest, http.StatusConflict, "duplicate_request"},
		{domain.ErrSeatLimitExceeded, http.StatusConflict, "seat_limit_exceeded"},
		{domain.ErrForbidden, http.StatusForbidden, codeForbidden},
		{domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
		{domain.ErrPaymentNotCompleted, http.StatusPaymentRequired, codePaymentRequired},
		{domain.ErrPaymentProvider, http.StatusBadGateway, codePaymentProvider},
		{errors.New("boom"), http.StatusInternalServerError, codeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}

	wrapped := errors.Join(errors.New("approve req-1"), domain.ErrOutOfStock)
	status, code := statusFor(wrapped)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "out_of_stock", code)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

func TestHandleHealth_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(failingPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
