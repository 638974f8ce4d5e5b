package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, type, is_cash, currency_code`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.IsCash, &m.CurrencyCode)
	return m, err
}

// ListAccounts returns the whole chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1;`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account with code " + code)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+code, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// UpsertAccounts inserts the chart in one transaction. Existing codes keep their id.
func (r *PgxAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) ([]domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO accounts (account_id, code, name, type, is_cash, currency_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, type = EXCLUDED.type, is_cash = EXCLUDED.is_cash, currency_code = EXCLUDED.currency_code
		RETURNING ` + accountColumns + `;
	`
	stored := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		m := mapping.ToModelAccount(acc)
		if m.AccountID == "" {
			m.AccountID = uuid.NewString()
		}
		row, err := scanAccount(tx.QueryRow(ctx, query, m.AccountID, m.Code, m.Name, m.AccountType, m.IsCash, m.CurrencyCode))
		if err != nil {
			if pgErrorCode(err) == pgCheckViolation {
				return nil, fmt.Errorf("%w: account %s rejected by constraint: %v", apperrors.ErrValidation, m.Code, err)
			}
			return nil, apperrors.NewAppError(500, "failed to upsert account "+m.Code, err)
		}
		stored = append(stored, mapping.ToDomainAccount(row))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return stored, nil
}
