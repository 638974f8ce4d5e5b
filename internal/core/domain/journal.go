package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side indicates whether a journal line is a debit or a credit.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntry is one balanced double-entry record per source transaction.
// Entries are immutable once stored; re-ingestion of the same TxnID is a no-op.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`
	TxnID            string        `json:"txnID"` // Natural key, unique
	TxnDate          time.Time     `json:"txnDate"`
	Description      string        `json:"description"`
	CurrencyCode     string        `json:"currencyCode"`
	SourceHash       string        `json:"sourceHash"`
	TransformVersion int           `json:"transformVersion"`
	ItemID           string        `json:"itemID"`
	Lines            []JournalLine `json:"lines"`
	RawPayload       []byte        `json:"-"` // Canonical source bytes, landed write-once
}

// JournalLine is a single debit or credit against one ledger account.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Side        Side            `json:"side"`
	Amount      decimal.Decimal `json:"amount"` // Non-negative
}

// HasLineage reports whether the entry carries a source hash and a positive transform version.
func (e JournalEntry) HasLineage() bool {
	return e.SourceHash != "" && e.TransformVersion > 0
}

// Totals returns the debit and credit sums of the entry's lines.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.Side == Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debits equal credits exactly.
func (e JournalEntry) IsBalanced() bool {
	d, c := e.Totals()
	return d.Equal(c)
}
