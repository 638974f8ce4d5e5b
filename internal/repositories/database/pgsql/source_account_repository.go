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

type PgxSourceAccountRepository struct {
	BaseRepository
}

func newPgxSourceAccountRepository(pool *pgxpool.Pool) portsrepo.SourceAccountRepositoryFacade {
	return &PgxSourceAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SourceAccountRepositoryFacade = (*PgxSourceAccountRepository)(nil)

const sourceAccountColumns = `plaid_account_id, item_id, name, type, subtype, currency_code`

func scanSourceAccount(row pgx.Row) (models.SourceAccount, error) {
	var m models.SourceAccount
	err := row.Scan(&m.PlaidAccountID, &m.ItemID, &m.Name, &m.Type, &m.Subtype, &m.CurrencyCode)
	return m, err
}

func (r *PgxSourceAccountRepository) FindSourceAccountByID(ctx context.Context, sourceAccountID string) (*domain.SourceAccount, error) {
	query := `SELECT ` + sourceAccountColumns + ` FROM plaid_accounts WHERE plaid_account_id = $1;`
	m, err := scanSourceAccount(r.Pool.QueryRow(ctx, query, sourceAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("source account " + sourceAccountID)
		}
		return nil, apperrors.NewAppError(500, "failed to find source account "+sourceAccountID, err)
	}
	acc := mapping.ToDomainSourceAccount(m)
	return &acc, nil
}

func (r *PgxSourceAccountRepository) ListSourceAccounts(ctx context.Context, itemID string) ([]domain.SourceAccount, error) {
	query := `
		SELECT ` + sourceAccountColumns + `
		FROM plaid_accounts
		WHERE ($1 = '' OR item_id = $1)
		ORDER BY plaid_account_id;
	`
	rows, err := r.Pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list source accounts", err)
	}
	defer rows.Close()

	var accounts []domain.SourceAccount
	for rows.Next() {
		m, err := scanSourceAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan source account row", err)
		}
		accounts = append(accounts, mapping.ToDomainSourceAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating source account rows", err)
	}
	return accounts, nil
}

// ListMappedCashAccounts joins links with the chart and keeps only cash accounts of the item.
func (r *PgxSourceAccountRepository) ListMappedCashAccounts(ctx context.Context, itemID string) ([]domain.MappedCashAccount, error) {
	query := `
		SELECT l.plaid_account_id, a.account_id, a.code
		FROM account_links l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN plaid_accounts p ON p.plaid_account_id = l.plaid_account_id
		WHERE a.is_cash AND ($1 = '' OR p.item_id = $1)
		ORDER BY l.plaid_account_id;
	`
	rows, err := r.Pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list mapped cash accounts", err)
	}
	defer rows.Close()

	var mapped []domain.MappedCashAccount
	for rows.Next() {
		var m domain.MappedCashAccount
		if err := rows.Scan(&m.SourceAccountID, &m.AccountID, &m.AccountCode); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan mapped cash account row", err)
		}
		mapped = append(mapped, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating mapped cash account rows", err)
	}
	return mapped, nil
}

// ListAccountLinks joins links with the chart for the item's source accounts.
func (r *PgxSourceAccountRepository) ListAccountLinks(ctx context.Context, itemID string) ([]domain.LinkedAccount, error) {
	query := `
		SELECT l.plaid_account_id, a.account_id, a.code, a.type, a.is_cash
		FROM account_links l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN plaid_accounts p ON p.plaid_account_id = l.plaid_account_id
		WHERE ($1 = '' OR p.item_id = $1)
		ORDER BY l.plaid_account_id;
	`
	rows, err := r.Pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list account links", err)
	}
	defer rows.Close()

	var links []domain.LinkedAccount
	for rows.Next() {
		var l domain.LinkedAccount
		var accountType string
		if err := rows.Scan(&l.SourceAccountID, &l.AccountID, &l.AccountCode, &accountType, &l.IsCash); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account link row", err)
		}
		l.AccountType = domain.AccountType(accountType)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account link rows", err)
	}
	return links, nil
}

// UpsertSourceAccounts refreshes metadata in a single batch.
func (r *PgxSourceAccountRepository) UpsertSourceAccounts(ctx context.Context, accounts []domain.SourceAccount) (int, error) {
	if len(accounts) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO plaid_accounts (plaid_account_id, item_id, name, type, subtype, currency_code, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (plaid_account_id) DO UPDATE
		SET item_id = EXCLUDED.item_id, name = EXCLUDED.name, type = EXCLUDED.type,
		    subtype = EXCLUDED.subtype, currency_code = EXCLUDED.currency_code, updated_at = now();
	`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		m := mapping.ToModelSourceAccount(acc)
		batch.Queue(query, m.PlaidAccountID, m.ItemID, m.Name, m.Type, m.Subtype, m.CurrencyCode)
	}
	if err := r.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, apperrors.NewAppError(500, "failed to upsert source accounts", err)
	}
	return len(accounts), nil
}

// SaveAccountLink creates or replaces the link of a source account.
func (r *PgxSourceAccountRepository) SaveAccountLink(ctx context.Context, link domain.AccountLink) error {
	query := `
		INSERT INTO account_links (link_id, plaid_account_id, account_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (plaid_account_id) DO UPDATE SET account_id = EXCLUDED.account_id;
	`
	_, err := r.Pool.Exec(ctx, query, uuid.NewString(), link.SourceAccountID, link.AccountID)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: link %s -> %s references a missing row", apperrors.ErrNotFound, link.SourceAccountID, link.AccountID)
		case pgUniqueViolation:
			return fmt.Errorf("%w: ledger account %s is already linked to another source account", apperrors.ErrDuplicate, link.AccountID)
		}
		return apperrors.NewAppError(500, "failed to save account link for "+link.SourceAccountID, err)
	}
	return nil
}
