package repositories

import (
	"context"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// SourceAccountReader defines read operations for source accounts and their links
type SourceAccountReader interface {
	// FindSourceAccountByID returns apperrors.ErrNotFound when the account was never ingested.
	FindSourceAccountByID(ctx context.Context, sourceAccountID string) (*domain.SourceAccount, error)

	// ListSourceAccounts lists source accounts of an item; an empty item lists all.
	ListSourceAccounts(ctx context.Context, itemID string) ([]domain.SourceAccount, error)

	// ListMappedCashAccounts returns linked source accounts of the item whose ledger account is a cash
	// account, ordered by source account id.
	ListMappedCashAccounts(ctx context.Context, itemID string) ([]domain.MappedCashAccount, error)

	// ListAccountLinks returns every link of the item's source accounts with its ledger account,
	// ordered by source account id.
	ListAccountLinks(ctx context.Context, itemID string) ([]domain.LinkedAccount, error)
}

// SourceAccountWriter defines write operations for source accounts and their links
type SourceAccountWriter interface {
	// UpsertSourceAccounts inserts or refreshes metadata keyed by source account id.
	UpsertSourceAccounts(ctx context.Context, accounts []domain.SourceAccount) (int, error)

	// SaveAccountLink creates or replaces the link of a source account. Linking a ledger account that
	// is already linked to another source account returns apperrors.ErrDuplicate.
	SaveAccountLink(ctx context.Context, link domain.AccountLink) error
}

// SourceAccountRepositoryFacade combines all source-account repository interfaces
type SourceAccountRepositoryFacade interface {
	SourceAccountReader
	SourceAccountWriter
}
