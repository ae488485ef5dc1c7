package postgres

import (
	"database/sql"

	"assetdesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AccountRepository
	repository.AssetRepository
	repository.RequestRepository
	repository.AssignmentRepository
	repository.PackageRepository
	repository.PaymentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		AccountRepository:    NewAccountRepository(db),
		AssetRepository:      NewAssetRepository(db),
		RequestRepository:    NewRequestRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
		PackageRepository:    NewPackageRepository(db),
		PaymentRepository:    NewPaymentRepository(db),
	}
}

// DB exposes the underlying pool for health checks and migrations
func (s *Store) DB() *sql.DB {
	return s.db
}
