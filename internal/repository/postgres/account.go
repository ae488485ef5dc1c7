package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, name, role, company_name, date_of_birth, package_limit, current_employee_count, subscription_tier, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.CompanyName, &a.DateOfBirth, &a.PackageLimit, &a.CurrentEmployeeCount, &a.SubscriptionTier, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO accounts (id, email, name, role, company_name, date_of_birth, package_limit, current_employee_count, subscription_tier, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.DatabaseCall("accounts.create", query, "email", a.Email)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.Name, a.Role, a.CompanyName, a.DateOfBirth, a.PackageLimit, a.CurrentEmployeeCount, a.SubscriptionTier, a.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyRegistered
	}
	logger.DatabaseResult("accounts.create", 1, err)
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return a, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return a, nil
}

func (r *accountRepository) ConsumeSeat(ctx context.Context, hrID string) error {
	query := `UPDATE accounts SET package_limit = package_limit - 1, current_employee_count = current_employee_count + 1
	          WHERE id = $1 AND package_limit > 0`
	logger.DatabaseCall("accounts.consume_seat", query, "hr_id", hrID)
	res, err := r.db.ExecContext(ctx, query, hrID)
	if err != nil {
		logger.DatabaseResult("accounts.consume_seat", 0, err)
		return err
	}
	n, err := rowsAffected("accounts.consume_seat", res)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	return r.missingOr(ctx, hrID, domain.ErrSeatLimitExceeded)
}

func (r *accountRepository) ReturnSeat(ctx context.Context, hrID string) error {
	query := `UPDATE accounts SET package_limit = package_limit + 1, current_employee_count = current_employee_count - 1
	          WHERE id = $1 AND current_employee_count > 0`
	logger.DatabaseCall("accounts.return_seat", query, "hr_id", hrID)
	res, err := r.db.ExecContext(ctx, query, hrID)
	if err != nil {
		logger.DatabaseResult("accounts.return_seat", 0, err)
		return err
	}
	n, err := rowsAffected("accounts.return_seat", res)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Nothing consumed means there is nothing to give back.
	return r.missingOr(ctx, hrID, nil)
}

func (r *accountRepository) CreditSeats(ctx context.Context, hrID string, seats int32, tier, orderID string) (bool, error) {
	query := `UPDATE accounts SET package_limit = package_limit + $2, subscription_tier = $3, applied_orders = array_append(applied_orders, $4)
	          WHERE id = $1 AND NOT ($4 = ANY(applied_orders))`
	logger.DatabaseCall("accounts.credit_seats", query, "hr_id", hrID, "seats", seats, "order_id", orderID)
	res, err := r.db.ExecContext(ctx, query, hrID, seats, tier, orderID)
	if err != nil {
		logger.DatabaseResult("accounts.credit_seats", 0, err)
		return false, err
	}
	n, err := rowsAffected("accounts.credit_seats", res)
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if err := r.missingOr(ctx, hrID, nil); err != nil {
		return false, err
	}
	return false, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.Account, error) {
	query := `UPDATE accounts SET name = COALESCE($2, name), date_of_birth = COALESCE($3, date_of_birth)
	          WHERE id = $1
	          RETURNING ` + accountColumns
	logger.DatabaseCall("accounts.update_profile", query, "account_id", id)
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, p.Name, p.DateOfBirth))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("accounts.update_profile", 0, nil)
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		logger.DatabaseResult("accounts.update_profile", 0, err)
		return nil, err
	}
	logger.DatabaseResult("accounts.update_profile", 1, nil)
	return a, nil
}

// missingOr returns ErrAccountNotFound when the account does not exist, otherwise fallback
func (r *accountRepository) missingOr(ctx context.Context, id string, fallback error) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}
	return fallback
}
