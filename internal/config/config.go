package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC health listener settings
type ServerConfig struct {
	Host            string `yaml:"host" env:"SERVER_HOST"`
	Port            int    `yaml:"port" env:"SERVER_PORT"`
	HealthPort      int    `yaml:"health_port" env:"SERVER_HEALTH_PORT"` // gRPC health service
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds" env:"SERVER_SHUTDOWN_TIMEOUT_SECONDS"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
}

// AuthConfig selects how bearer credentials are verified
type AuthConfig struct {
	Provider                string `yaml:"provider" env:"AUTH_PROVIDER"` // "firebase" or "jwt"
	FirebaseProjectID       string `yaml:"firebase_project_id" env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
	JWTSecret               string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

// PaymentConfig contains checkout provider settings
type PaymentConfig struct {
	Provider            string `yaml:"provider" env:"PAYMENT_PROVIDER"` // "stripe" or "mock"
	StripeSecretKey     string `yaml:"stripe_secret_key" env:"STRIPE_SECRET"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `yaml:"currency" env:"PAYMENT_CURRENCY"`
	SiteDomain          string `yaml:"site_domain" env:"SITE_DOMAIN"`
	MockBaseURL         string `yaml:"mock_base_url" env:"PAYMENT_MOCK_BASE_URL"`
}

// WorkflowConfig contains asset request and entitlement settings
type WorkflowConfig struct {
	ReturnPeriodDays    int `yaml:"return_period_days" env:"RETURN_PERIOD_DAYS"`
	DefaultPackageLimit int `yaml:"default_package_limit" env:"DEFAULT_PACKAGE_LIMIT"`
	// Paid orders still uncredited after this many minutes are picked up by the reconcile job.
	CreditGraceMinutes int `yaml:"credit_grace_minutes" env:"CREDIT_GRACE_MINUTES"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcilePayments    string `yaml:"reconcile_payments" env:"CRON_RECONCILE_PAYMENTS"`
	ReportOverdueReturns string `yaml:"report_overdue_returns" env:"CRON_REPORT_OVERDUE_RETURNS"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Variables that are unset leave the YAML value in place
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = "firebase"
	}
	if c.Payment.Provider == "" {
		c.Payment.Provider = "mock"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "usd"
	}
	if c.Workflow.ReturnPeriodDays == 0 {
		c.Workflow.ReturnPeriodDays = 30
	}
	if c.Workflow.DefaultPackageLimit == 0 {
		c.Workflow.DefaultPackageLimit = 5
	}
	if c.Workflow.CreditGraceMinutes == 0 {
		c.Workflow.CreditGraceMinutes = 5
	}
	if c.Scheduler.ReconcilePayments == "" {
		c.Scheduler.ReconcilePayments = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.ReportOverdueReturns == "" {
		c.Scheduler.ReportOverdueReturns = "0 0 6 * * *" // 6 AM UTC
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	switch c.Auth.Provider {
	case "firebase":
		if c.Auth.FirebaseProjectID == "" && c.Auth.FirebaseCredentialsFile == "" {
			return fmt.Errorf("firebase project id or credentials file is required")
		}
	case "jwt":
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
	default:
		return fmt.Errorf("unsupported auth provider: %q", c.Auth.Provider)
	}

	switch c.Payment.Provider {
	case "stripe":
		if c.Payment.StripeSecretKey == "" {
			return fmt.Errorf("stripe secret key is required")
		}
		if c.Payment.SiteDomain == "" {
			return fmt.Errorf("site domain is required for checkout redirects")
		}
	case "mock":
	default:
		return fmt.Errorf("unsupported payment provider: %q", c.Payment.Provider)
	}

	if c.Workflow.ReturnPeriodDays < 0 {
		return fmt.Errorf("return period must not be negative: %d", c.Workflow.ReturnPeriodDays)
	}
	if c.Workflow.DefaultPackageLimit < 0 {
		return fmt.Errorf("default package limit must not be negative: %d", c.Workflow.DefaultPackageLimit)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address, empty when disabled
func (c *Config) GetHealthAddress() string {
	if c.Server.HealthPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}

// ReturnPeriod is the loan window granted on approval of a returnable asset
func (c *Config) ReturnPeriod() time.Duration {
	return time.Duration(c.Workflow.ReturnPeriodDays) * 24 * time.Hour
}

// CreditGrace is how long a paid order may stay uncredited before the reconcile job retries it
func (c *Config) CreditGrace() time.Duration {
	return time.Duration(c.Workflow.CreditGraceMinutes) * time.Minute
}
