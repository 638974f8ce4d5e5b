package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// LedgerWriter defines write operations for journal entries
type LedgerWriter interface {
	// InsertEntry atomically stores an entry with its lines and raw payload. It returns false without
	// writing when an entry with the same txn_id already exists, including when a concurrent writer wins
	// the race. A line referencing an unknown account aborts the entry with an integrity error.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) (bool, error)
}

// LedgerReader defines read operations for journal entries
type LedgerReader interface {
	// Snapshot returns, from one consistent point-in-time view, every entry of the item (all items when
	// empty) dated on or before asOf, with lines.
	Snapshot(ctx context.Context, itemID string, asOf time.Time) (*domain.LedgerSnapshot, error)

	// CountEntries returns the number of entries and lines stored for the item (all items when empty).
	CountEntries(ctx context.Context, itemID string) (entries int, lines int, err error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
