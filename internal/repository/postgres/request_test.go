package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestRowColumns = []string{"id", "asset_id", "asset_name", "asset_type", "requester_id", "hr_id", "company_name", "status", "requested_at",
	"decided_at", "decided_by", "return_deadline", "returned_at", "note", "direct_assign"}

func TestRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()
	req := &domain.AssetRequest{
		ID:          "req-1",
		AssetID:     "asset-1",
		AssetName:   "Laptop",
		AssetType:   domain.ProductTypeReturnable,
		RequesterID: "emp-1",
		HRID:        "hr-1",
		Status:      domain.RequestStatusPending,
		RequestedAt: time.Now(),
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO asset_requests").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, req))
	})

	t.Run("LiveRequestExists", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO asset_requests").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "asset_requests_live_uniq"})

		assert.ErrorIs(t, repo.Create(ctx, req), domain.ErrDuplicateRequest)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_Decide(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()
	now := time.Now()
	deadline := now.Add(30 * 24 * time.Hour)
	decision := domain.Decision{Status: domain.RequestStatusApproved, DecidedAt: now, DecidedBy: "hr-1", ReturnDeadline: &deadline}

	t.Run("Pending", func(t *testing.T) {
		mock.ExpectExec("UPDATE asset_requests SET status = \\$2").
			WithArgs("req-1", "approved", now, "hr-1", deadline).
			WillReturnResult(sqlmock.NewResult(0, 1))

		changed, err := repo.Decide(ctx, "req-1", decision)
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		mock.ExpectExec("UPDATE asset_requests SET status = \\$2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		changed, err := repo.Decide(ctx, "req-1", decision)
		assert.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("RowsAffectedUnavailable", func(t *testing.T) {
		driverErr := errors.New("driver: rows affected unavailable")
		mock.ExpectExec("UPDATE asset_requests SET status = \\$2").
			WillReturnResult(sqlmock.NewErrorResult(driverErr))

		_, err := repo.Decide(ctx, "req-1", decision)
		assert.ErrorIs(t, err, driverErr)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_MarkReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(requestRowColumns).
			AddRow("req-1", "asset-1", "Laptop", "Returnable", "emp-1", "hr-1", "Acme", "returned", now, now, "hr-1", now, now, "", false)
		mock.ExpectQuery(`UPDATE asset_requests SET status = 'returned'(.|\n)*EXISTS \(SELECT 1 FROM assigned_assets`).
			WithArgs("req-1", "emp-1", now, "Returnable", "assigned").
			WillReturnRows(rows)

		req, err := repo.MarkReturned(ctx, "req-1", "emp-1", now)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusReturned, req.Status)
		require.NotNil(t, req.ReturnedAt)
		require.NotNil(t, req.DecidedBy)
		assert.Equal(t, "hr-1", *req.DecidedBy)
	})

	t.Run("NotEligible", func(t *testing.T) {
		mock.ExpectQuery("UPDATE asset_requests SET status = 'returned'").
			WithArgs("req-1", "emp-2", now, "Returnable", "assigned").
			WillReturnRows(sqlmock.NewRows(requestRowColumns))

		_, err := repo.MarkReturned(ctx, "req-1", "emp-2", now)
		assert.ErrorIs(t, err, domain.ErrNotEligible)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Pending", func(t *testing.T) {
		rows := sqlmock.NewRows(requestRowColumns).
			AddRow("req-1", "asset-1", "Mouse", "Non-returnable", "emp-1", "hr-1", "Acme", "pending", time.Now(), nil, nil, nil, nil, "please", false)
		mock.ExpectQuery("SELECT (.+) FROM asset_requests WHERE id = \\$1").
			WithArgs("req-1").
			WillReturnRows(rows)

		req, err := repo.GetByID(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, req.Status)
		assert.Nil(t, req.DecidedAt)
		assert.Nil(t, req.ReturnDeadline)
		assert.Equal(t, "please", req.Note)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM asset_requests WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(requestRowColumns))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}
