package pgsql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for journal entries and lines.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// InsertEntry writes the header, its lines and the raw payload in one transaction. A conflicting
// txn_id leaves the existing entry untouched and reports false.
func (r *PgxLedgerRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	header := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (entry_id, txn_id, txn_date, description, currency_code, item_id, source_hash, transform_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (txn_id) DO NOTHING
		RETURNING entry_id;
	`
	var entryID string
	err = tx.QueryRow(ctx, entryQuery,
		header.EntryID,
		header.TxnID,
		header.TxnDate,
		header.Description,
		header.CurrencyCode,
		header.ItemID,
		header.SourceHash,
		header.TransformVersion,
	).Scan(&entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
			return false, nil
		}
		return false, apperrors.NewAppError(500, "failed to insert entry "+header.TxnID, err)
	}

	// Lines are sent as one batch; the first failing statement aborts the transaction.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, side, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range entry.Lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, m.LineID, entryID, m.AccountID, m.Side, m.Amount)
	}
	if entry.RawPayload != nil {
		batch.Queue(`
			INSERT INTO raw_transactions (txn_id, item_id, payload, source_hash)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (txn_id) DO NOTHING;
		`, header.TxnID, header.ItemID, string(entry.RawPayload), header.SourceHash)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return false, lineIntegrityError(entry, err)
		case pgCheckViolation:
			return false, fmt.Errorf("%w: entry %s rejected by constraint: %v", apperrors.ErrValidation, header.TxnID, err)
		}
		return false, apperrors.NewAppError(500, "failed to insert lines for entry "+header.TxnID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

var fkAccountDetail = regexp.MustCompile(`Key \(account_id\)=\(([^)]+)\)`)

// lineIntegrityError names the account behind a journal_lines foreign key violation, read from the
// error detail, e.g. `Key (account_id)=(...) is not present in table "accounts".`
func lineIntegrityError(entry domain.JournalEntry, err error) *apperrors.IntegrityError {
	ie := &apperrors.IntegrityError{TxnID: entry.TxnID, Err: err}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ie
	}
	m := fkAccountDetail.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return ie
	}
	ie.AccountID = m[1]
	for _, line := range entry.Lines {
		if line.AccountID == ie.AccountID {
			ie.AccountCode = line.AccountCode
			break
		}
	}
	return ie
}

// Snapshot reads headers and lines inside one REPEATABLE READ transaction.
func (r *PgxLedgerRepository) Snapshot(ctx context.Context, itemID string, asOf time.Time) (*domain.LedgerSnapshot, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	cutoff := domain.DateOnly(asOf)
	entryQuery := `
		SELECT entry_id, txn_id, txn_date, description, currency_code, item_id, source_hash, transform_version
		FROM journal_entries
		WHERE ($1 = '' OR item_id = $1) AND txn_date <= $2
		ORDER BY txn_date, txn_id;
	`
	rows, err := tx.Query(ctx, entryQuery, itemID, cutoff)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	var entries []domain.JournalEntry
	index := map[string]int{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(&m.EntryID, &m.TxnID, &m.TxnDate, &m.Description, &m.CurrencyCode, &m.ItemID, &m.SourceHash, &m.TransformVersion); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		index[m.EntryID] = len(entries)
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	lineQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, a.code, l.side, l.amount
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ($1 = '' OR e.item_id = $1) AND e.txn_date <= $2
		ORDER BY l.entry_id, l.line_id;
	`
	rows, err = tx.Query(ctx, lineQuery, itemID, cutoff)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m    models.JournalLine
			code string
		)
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &code, &m.Side, &m.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		if i, ok := index[m.EntryID]; ok {
			entries[i].Lines = append(entries[i].Lines, mapping.ToDomainJournalLine(m, code))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.LedgerSnapshot{Entries: entries}, nil
}

func (r *PgxLedgerRepository) CountEntries(ctx context.Context, itemID string) (int, int, error) {
	query := `
		SELECT
			(SELECT count(*) FROM journal_entries WHERE $1 = '' OR item_id = $1),
			(SELECT count(*) FROM journal_lines l JOIN journal_entries e ON e.entry_id = l.entry_id
			 WHERE $1 = '' OR e.item_id = $1);
	`
	var entries, lines int
	if err := r.Pool.QueryRow(ctx, query, itemID).Scan(&entries, &lines); err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to count journal entries", err)
	}
	return entries, lines, nil
}
