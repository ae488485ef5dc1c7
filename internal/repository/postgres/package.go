package postgres

import (
	"context"
	"database/sql"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/repository"
)

type packageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	p := &domain.Package{}
	query := `SELECT id, name, employee_limit, price_cents FROM packages WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.EmployeeLimit, &p.PriceCents)
	if err != nil {
		return nil, notFound(err, domain.ErrPackageNotFound)
	}
	return p, nil
}

func (r *packageRepository) List(ctx context.Context) ([]domain.Package, error) {
	query := `SELECT id, name, employee_limit, price_cents FROM packages ORDER BY price_cents ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.EmployeeLimit, &p.PriceCents); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
