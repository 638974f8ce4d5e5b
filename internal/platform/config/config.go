package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      slog.Level

	// Admin API
	JWTSecret          string
	RateLimit          string // ulule/limiter formatted rate, e.g. "60-M"
	CORSAllowedOrigins []string

	// Plaid
	PlaidEnvironment string
	PlaidClientID    string
	PlaidSecret      string
	PlaidAccessToken string
	PlaidTimeout     time.Duration
	NoEgress         bool

	ExtractMaxPages int

	// ReconcileTolerance is the inclusive bound on total cash variance.
	ReconcileTolerance decimal.Decimal
}

// HasPlaidCredentials reports whether every credential needed to call Plaid is set.
func (c *Config) HasPlaidCredentials() bool {
	return c.PlaidClientID != "" && c.PlaidSecret != "" && c.PlaidAccessToken != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("PLAID_ENV", "sandbox")
	v.SetDefault("PLAID_CLIENT_ID", "")
	v.SetDefault("PLAID_SECRET", "")
	v.SetDefault("PLAID_ACCESS_TOKEN", "")
	v.SetDefault("PLAID_TIMEOUT", "30s")
	v.SetDefault("PFETL_NO_EGRESS", false)
	v.SetDefault("EXTRACT_MAX_PAGES", 100)
	v.SetDefault("RECONCILE_TOLERANCE", "0.01")

	// Environment variables override .env values, which override the defaults above.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      v.GetString("PGSQL_URL"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RateLimit:        v.GetString("RATE_LIMIT"),
		PlaidEnvironment: strings.ToLower(v.GetString("PLAID_ENV")),
		PlaidClientID:    v.GetString("PLAID_CLIENT_ID"),
		PlaidSecret:      v.GetString("PLAID_SECRET"),
		PlaidAccessToken: v.GetString("PLAID_ACCESS_TOKEN"),
		NoEgress:         v.GetBool("PFETL_NO_EGRESS"),
		ExtractMaxPages:  v.GetInt("EXTRACT_MAX_PAGES"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	timeout, err := time.ParseDuration(v.GetString("PLAID_TIMEOUT"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid PLAID_TIMEOUT %q", v.GetString("PLAID_TIMEOUT"))
	}
	cfg.PlaidTimeout = timeout

	if cfg.ExtractMaxPages <= 0 {
		return nil, fmt.Errorf("EXTRACT_MAX_PAGES must be positive, got %d", cfg.ExtractMaxPages)
	}

	tolerance, err := decimal.NewFromString(v.GetString("RECONCILE_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid RECONCILE_TOLERANCE %q", v.GetString("RECONCILE_TOLERANCE"))
	}
	cfg.ReconcileTolerance = tolerance

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
