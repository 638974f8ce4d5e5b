package services

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/extract"
	"github.com/SscSPs/plaid_ledger_recon/internal/transform"
	"github.com/shopspring/decimal"
)

// Dependencies are the non-repository inputs of the service container.
type Dependencies struct {
	Mapping        *transform.Mapping
	Chart          []domain.Account
	Connect        IngestConnector  // nil disables ingest
	Balances       BalanceConnector // nil disables live balances
	ExtractOptions []extract.Option
	MaxPages       int
	Tolerance      decimal.NullDecimal // reconcile.DefaultTolerance when not set
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first; every pipeline service records through it
	container.Audit = NewAuditService(repos.EventRepo)

	container.Chart = NewChartService(repos.AccountRepo, repos.SourceAccountRepo, deps.Chart, deps.Mapping.Codes())
	container.Loader = NewLoaderService(repos.AccountRepo, repos.SourceAccountRepo, repos.LedgerRepo, container.Audit)

	connect := deps.Connect
	if connect == nil {
		connect = noIngestSource
	}
	container.Ingest = NewIngestService(
		connect,
		transform.NewEngine(deps.Mapping),
		repos.SourceAccountRepo,
		repos.LedgerRepo,
		container.Loader,
		container.Audit,
		WithExtractOptions(deps.ExtractOptions...),
		WithMaxPages(deps.MaxPages),
	)

	var reconcileOpts []ReconciliationOption
	if deps.Tolerance.Valid {
		reconcileOpts = append(reconcileOpts, WithTolerance(deps.Tolerance.Decimal))
	}
	container.Reconciliation = NewReconciliationService(
		repos.SourceAccountRepo,
		repos.LedgerRepo,
		container.Audit,
		deps.Balances,
		reconcileOpts...,
	)

	return container
}
