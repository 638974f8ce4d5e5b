package pgsql

import (
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		SourceAccountRepo: newPgxSourceAccountRepository(dbPool),
		LedgerRepo:        newPgxLedgerRepository(dbPool),
		EventRepo:         newPgxEventRepository(dbPool),
	}
}
