package repositories

import (
	"context"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code. Returns apperrors.ErrNotFound when absent.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// UpsertAccounts inserts accounts by code, updating name and flags of existing codes, and returns the
	// stored accounts with their ids.
	UpsertAccounts(ctx context.Context, accounts []domain.Account) ([]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
