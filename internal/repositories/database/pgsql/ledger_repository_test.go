package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLineIntegrityError(t *testing.T) {
	entry := domain.JournalEntry{
		TxnID: "txn-1",
		Lines: []domain.JournalLine{
			{AccountID: "3f1c7d7e-0000-4000-8000-000000000001", AccountCode: "Expenses:Miscellaneous", Side: domain.Debit},
			{AccountID: "3f1c7d7e-0000-4000-8000-000000000002", AccountCode: "Assets:Bank:Checking", Side: domain.Credit},
		},
	}

	t.Run("account from foreign key detail", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgForeignKeyViolation,
			ConstraintName: "journal_lines_account_id_fkey",
			Detail:         `Key (account_id)=(3f1c7d7e-0000-4000-8000-000000000002) is not present in table "accounts".`,
		}
		err := lineIntegrityError(entry, fmt.Errorf("batch: %w", pgErr))

		assert.Equal(t, "txn-1", err.TxnID)
		assert.Equal(t, "3f1c7d7e-0000-4000-8000-000000000002", err.AccountID)
		assert.Equal(t, "Assets:Bank:Checking", err.AccountCode)
		assert.ErrorIs(t, err, apperrors.ErrIntegrity)
		assert.Contains(t, err.Error(), "No ledger account found for code: Assets:Bank:Checking")
	})

	t.Run("unknown id keeps the id", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgForeignKeyViolation, Detail: `Key (account_id)=(abc) is not present in table "accounts".`}
		err := lineIntegrityError(entry, pgErr)
		assert.Equal(t, "abc", err.AccountID)
		assert.Empty(t, err.AccountCode)
		assert.Contains(t, err.Error(), "No ledger account found for code: abc")
	})

	t.Run("other causes", func(t *testing.T) {
		err := lineIntegrityError(entry, errors.New("boom"))
		assert.Empty(t, err.AccountID)
		assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	})
}
