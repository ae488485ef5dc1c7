package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assetdesk-backend/internal/clock"
	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/logger"
	"assetdesk-backend/internal/payment"
	"assetdesk-backend/internal/repository/postgres"
	"assetdesk-backend/internal/security"
	"assetdesk-backend/internal/service"
	"assetdesk-backend/migrations"

	_ "github.com/lib/pq"
)

const mockWebhookSecret = "whsec_mock_local"

// App holds the wired services shared by the server and the cronjob binary
type App struct {
	DB        *sql.DB
	Store     *postgres.Store
	Processor payment.Processor
	// MockProcessor is set only when the mock payment provider is configured
	MockProcessor *payment.MockProcessor

	Accounts service.AccountService
	Assets   service.AssetService
	Requests service.RequestWorkflow
	Payments service.PaymentReconciler
}

// Open connects to the database, applies migrations and wires the services
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	a := &App{DB: db, Store: postgres.NewStore(db)}
	a.Processor, a.MockProcessor = newProcessor(cfg)
	a.wire(cfg, clock.NewSystem())
	return a, nil
}

func (a *App) wire(cfg *config.Config, clk clock.Clock) {
	inventory := service.NewInventoryLedger(a.Store.AssetRepository)
	entitlement := service.NewEntitlementLedger(a.Store.AccountRepository)

	a.Accounts = service.NewAccountService(a.Store.AccountRepository, clk, int32(cfg.Workflow.DefaultPackageLimit))
	a.Assets = service.NewAssetService(a.Store.AssetRepository, a.Store.AccountRepository, a.Store.PackageRepository, inventory, clk)
	a.Requests = service.NewRequestWorkflow(
		a.Store.RequestRepository,
		a.Store.AssetRepository,
		a.Store.AccountRepository,
		a.Store.AssignmentRepository,
		inventory,
		entitlement,
		clk,
		cfg.ReturnPeriod(),
	)
	a.Payments = service.NewPaymentReconciler(
		a.Store.PaymentRepository,
		a.Store.PackageRepository,
		a.Store.AccountRepository,
		entitlement,
		a.Processor,
		clk,
		cfg.Payment.Currency,
	)
}

func newProcessor(cfg *config.Config) (payment.Processor, *payment.MockProcessor) {
	if cfg.Payment.Provider == "stripe" {
		logger.Info("Using Stripe payment processor", "site_domain", cfg.Payment.SiteDomain)
		return payment.NewStripeProcessor(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret, cfg.Payment.SiteDomain), nil
	}

	baseURL := cfg.Payment.MockBaseURL
	if baseURL == "" {
		baseURL = "http://" + cfg.GetServerAddress()
	}
	secret := cfg.Payment.StripeWebhookSecret
	if secret == "" {
		secret = mockWebhookSecret
	}
	logger.Info("Using mock payment processor", "base_url", baseURL)
	mock := payment.NewMockProcessor(baseURL, secret)
	return mock, mock
}

// NewVerifier builds the bearer credential verifier selected by auth.provider
func NewVerifier(ctx context.Context, cfg *config.Config) (security.IdentityVerifier, error) {
	switch cfg.Auth.Provider {
	case "jwt":
		logger.Info("Using HS256 JWT identity verifier")
		return security.NewTokenManager(cfg.Auth.JWTSecret), nil
	case "firebase":
		logger.Info("Using Firebase identity verifier", "project_id", cfg.Auth.FirebaseProjectID)
		return security.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported auth provider: %q", cfg.Auth.Provider)
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}
