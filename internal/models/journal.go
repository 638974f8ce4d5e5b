package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table. txn_id is unique.
type JournalEntry struct {
	EntryID          string    `db:"entry_id"`
	TxnID            string    `db:"txn_id"`
	TxnDate          time.Time `db:"txn_date"`
	Description      string    `db:"description"`
	CurrencyCode     string    `db:"currency_code"`
	ItemID           string    `db:"item_id"`
	SourceHash       string    `db:"source_hash"`
	TransformVersion int       `db:"transform_version"`
	CreatedAt        time.Time `db:"created_at"`
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	AccountID string          `db:"account_id"`
	Side      string          `db:"side"`   // CHECK: debit, credit
	Amount    decimal.Decimal `db:"amount"` // NUMERIC(18,2), CHECK >= 0
}

// RawTransaction keeps the canonical payload a journal entry was derived from.
type RawTransaction struct {
	TxnID      string    `db:"txn_id"`
	ItemID     string    `db:"item_id"`
	Payload    []byte    `db:"payload"` // JSONB
	SourceHash string    `db:"source_hash"`
	IngestedAt time.Time `db:"ingested_at"`
}
