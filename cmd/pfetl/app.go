package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/chart"
	"github.com/SscSPs/plaid_ledger_recon/internal/connectors/plaid"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/SscSPs/plaid_ledger_recon/internal/platform/config"
	"github.com/SscSPs/plaid_ledger_recon/internal/repositories/database/pgsql"
	"github.com/SscSPs/plaid_ledger_recon/internal/repositories/memory"
	"github.com/SscSPs/plaid_ledger_recon/internal/transform"
	"github.com/SscSPs/plaid_ledger_recon/pkg/database"
	"github.com/google/subcommands"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	mappingFile = flag.String("mapping", "", "Path to a mapping table YAML file. Defaults to the embedded table.")
	chartFile   = flag.String("chart", "", "Path to a chart of accounts YAML file. Defaults to the embedded chart.")
)

// app is what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool // nil for in-memory runs
	services *portssvc.ServiceContainer
}

// newLogger builds the process logger. Logs go to stderr so stdout carries only command output.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads configuration and installs the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w: %w", apperrors.ErrUsage, err)
	}
	return cfg, newLogger(cfg), nil
}

// openApp wires storage and services. With inMemory set the run uses a fresh in-memory store
// seeded with the chart of accounts and never touches the database.
func openApp(ctx context.Context, inMemory bool) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	deps, err := dependencies(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	var repos portsrepo.RepositoryProvider
	if inMemory {
		repos = memory.NewStore().Provider()
	} else {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required: %w", apperrors.ErrUsage)
		}
		a.pool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, err
		}
		repos = pgsql.NewRepositoryProvider(a.pool)
	}

	a.services = services.NewServiceContainer(repos, deps)
	if inMemory {
		if _, err := a.services.Chart.Seed(middleware.WithLogger(ctx, logger)); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.pool != nil {
		database.ClosePgxPool(a.pool)
	}
}

// Context returns ctx carrying the app logger.
func (a *app) Context(ctx context.Context) context.Context {
	return middleware.WithLogger(ctx, a.logger)
}

func dependencies(cfg *config.Config) (services.Dependencies, error) {
	mapping, err := loadMapping()
	if err != nil {
		return services.Dependencies{}, err
	}
	accounts, err := loadChart()
	if err != nil {
		return services.Dependencies{}, err
	}
	return services.Dependencies{
		Mapping: mapping,
		Chart:   accounts,
		Connect: func() (services.IngestSource, error) {
			c, err := newPlaidClient(cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Balances: func() (portssvc.BalanceSource, error) {
			c, err := newPlaidClient(cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		MaxPages:  cfg.ExtractMaxPages,
		Tolerance: decimal.NewNullDecimal(cfg.ReconcileTolerance),
	}, nil
}

func newPlaidClient(cfg *config.Config) (*plaid.Client, error) {
	return plaid.NewClient(plaid.ClientConfig{
		Environment: cfg.PlaidEnvironment,
		ClientID:    cfg.PlaidClientID,
		Secret:      cfg.PlaidSecret,
		AccessToken: cfg.PlaidAccessToken,
		Timeout:     cfg.PlaidTimeout,
		NoEgress:    cfg.NoEgress,
	})
}

func loadMapping() (*transform.Mapping, error) {
	if *mappingFile == "" {
		return transform.DefaultMapping()
	}
	data, err := os.ReadFile(*mappingFile)
	if err != nil {
		return nil, fmt.Errorf("read mapping table: %w", err)
	}
	return transform.LoadMapping(data)
}

func loadChart() ([]domain.Account, error) {
	if *chartFile == "" {
		return chart.Default()
	}
	data, err := os.ReadFile(*chartFile)
	if err != nil {
		return nil, fmt.Errorf("read chart of accounts: %w", err)
	}
	return chart.Load(data)
}

// fail reports err and converts it to the exit status contract.
func fail(logger *slog.Logger, msg string, err error) subcommands.ExitStatus {
	if logger != nil {
		logger.Error(msg, slog.String("error", err.Error()))
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	return subcommands.ExitStatus(apperrors.ExitCode(err))
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
