package services

import (
	"context"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/shopspring/decimal"
)

// LoadRequest is the input of a single idempotent load.
type LoadRequest struct {
	ItemID         string
	SourceAccounts []domain.SourceAccount
	Entries        []domain.JournalEntry
}

// LoaderSvc persists journal entries idempotently by txn_id.
type LoaderSvc interface {
	// Load upserts source-account metadata, inserts each new entry atomically, skips entries whose
	// txn_id already exists, and records one load event.
	Load(ctx context.Context, req LoadRequest) (domain.RowCounts, error)
}

// IngestSvc runs extract, transform and load for one item and window.
type IngestSvc interface {
	Run(ctx context.Context, req dto.IngestRequest) (*domain.IngestSummary, error)

	// SyncAccounts fetches and upserts the item's source-account metadata without extracting.
	SyncAccounts(ctx context.Context, itemID string) ([]domain.SourceAccount, error)
}

// ReconciliationSvc runs the reconciliation engine against storage and persists its outcome.
type ReconciliationSvc interface {
	// Reconcile returns the report even when a gate fails; the error then wraps apperrors.ErrGateFailed
	// or apperrors.ErrCoverage.
	Reconcile(ctx context.Context, req dto.ReconcileRequest) (*domain.ReconciliationResult, error)
}

// AuditSvc is the append-only audit recorder.
type AuditSvc interface {
	Record(ctx context.Context, event domain.EtlEvent) (domain.EtlEvent, error)
	List(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error)
}

// ChartReaderSvc defines read operations on the chart of accounts.
type ChartReaderSvc interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListSourceAccounts lists the item's known source accounts with their links. It fails with
	// apperrors.ErrScopeUnresolved when the item has none.
	ListSourceAccounts(ctx context.Context, itemID string) ([]dto.SourceAccountResponse, error)
}

// ChartWriterSvc defines administrative writes on the chart and account links.
type ChartWriterSvc interface {
	// Seed upserts the canonical chart and returns the stored accounts.
	Seed(ctx context.Context) ([]domain.Account, error)

	// LinkAccount is the only way an AccountLink is created.
	LinkAccount(ctx context.Context, req dto.LinkAccountRequest) (*dto.AccountLinkResponse, error)
}

// ChartSvcFacade combines chart reads and writes.
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}

// AccountSource supplies source-account metadata for the configured item.
type AccountSource interface {
	SourceAccounts(ctx context.Context) ([]domain.SourceAccount, error)
}

// BalanceSource supplies live external balances keyed by source account id.
type BalanceSource interface {
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)
}
