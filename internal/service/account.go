package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"assetdesk-backend/internal/clock"
	"assetdesk-backend/internal/domain"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/repository"
)

// Tier recorded on HR accounts before any package purchase
const DefaultSubscriptionTier = "basic"

type accountService struct {
	accounts            repository.AccountRepository
	clock               clock.Clock
	defaultPackageLimit int32
}

func NewAccountService(accounts repository.AccountRepository, clk clock.Clock, defaultPackageLimit int32) AccountService {
	return &accountService{
		accounts:            accounts,
		clock:               clk,
		defaultPackageLimit: defaultPackageLimit,
	}
}

func (s *accountService) Register(ctx context.Context, email string, in RegisterInput) (*domain.Account, error) {
	logger.EnterMethod("accountService.Register", "email", email, "role", in.Role)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	if in.Role == domain.AccountRoleHR && strings.TrimSpace(in.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company_name is required for hr accounts", domain.ErrInvalidInput)
	}

	_, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		logger.ExitMethodWithError("accountService.Register", domain.ErrAlreadyRegistered, true)
		return nil, domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		logger.ExitMethodWithError("accountService.Register", err, false)
		return nil, err
	}

	account := &domain.Account{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        strings.TrimSpace(in.Name),
		Role:        in.Role,
		CompanyName: strings.TrimSpace(in.CompanyName),
		DateOfBirth: in.DateOfBirth,
		CreatedAt:   s.clock.Now(),
	}
	if account.IsHR() {
		account.PackageLimit = s.defaultPackageLimit
		account.SubscriptionTier = DefaultSubscriptionTier
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		logger.ExitMethodWithError("accountService.Register", err, domain.IsBusinessRule(err))
		return nil, err
	}

	logger.ExitMethod("accountService.Register", "account_id", account.ID)
	return account, nil
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *accountService) GetSeatLimit(ctx context.Context, hrID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, hrID)
	if err != nil {
		return nil, err
	}
	if !account.IsHR() {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*domain.Account, error) {
	logger.EnterMethod("accountService.UpdateProfile", "account_id", accountID)

	if in.Name == nil && in.DateOfBirth == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
		in.Name = &name
	}

	account, err := s.accounts.UpdateProfile(ctx, accountID, domain.ProfileUpdate{
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
	})
	if err != nil {
		logger.ExitMethodWithError("accountService.UpdateProfile", err, domain.IsBusinessRule(err))
		return nil, err
	}

	logger.ExitMethod("accountService.UpdateProfile", "account_id", account.ID)
	return account, nil
}
